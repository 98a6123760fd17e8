package extract

import (
	"fmt"
	"strings"
)

// Prompts are French (the corpus is mostly French-Canadian CVs) with English
// JSON keys. Every prompt forbids fabrication: missing fields stay empty, and
// the validator later cross-checks the output against the source anchors.

const contactSystemPrompt = "Tu es un expert en extraction de données de CV. " +
	"Ta mission est d'identifier le candidat et ses coordonnées avec une précision absolue."

const contactUserPrompt = `Voici le début d'un CV (texte brut). Extrait uniquement les informations de contact et d'entête candidat.

Contraintes CRITIQUES :
1. Le "name" est le NOM PROPRE du candidat (ex: 'Jean Dupont').
   - Ce n'est JAMAIS un titre de section comme "COMPÉTENCES TECHNIQUES", "EXPERIENCE", "CURRICULUM VITAE".
2. Le "title" est le rôle professionnel (ex: 'Ingénieur Logiciel', 'Développeur Fullstack').
3. Ne rien inventer. Si une info est absente, laisse vide "".

Retourne un JSON strict :
{
  "name": "Nom Prénom",
  "title": "Titre du poste",
  "email": "email@example.com",
  "phone": "+1 234...",
  "location": "Ville, Pays",
  "languages": ["Français", "Anglais"]
}

Texte à analyser :
"""%s"""`

const experienceSystemPrompt = "Tu es un expert en analyse de CV chargé de structurer des expériences " +
	"professionnelles sans jamais inventer d'information et en respectant strictement les données fournies."

const experienceUserPrompt = `Tu reçois un bloc brut issu d'un CV. Tu dois en extraire UNIQUEMENT les informations présentes.

Contraintes absolues :
1. "dates_raw" reprend exactement le texte des dates tel qu'écrit (ex: "Septembre 2021 - Aujourd'hui").
2. "date_start" et "date_end" sont au format YYYY-MM si le mois est écrit, YYYY sinon, vides si absents.
3. Ne crée jamais d'expérience ni d'information qui n'existe pas.
4. Si un champ manque dans le texte, laisse-le vide (""), sauf les listes qui doivent être vides ([]).
5. Les "tasks" DOIVENT être extraites : toutes les phrases d'action (bullet points ou phrases) décrivant le travail.
   - Ne résume pas, extrait les points clés.
6. Les "skills" contiennent uniquement des technologies/outils/méthodes mentionnés EXPLICITEMENT dans le bloc.
   - Ne devine pas les compétences.

Retourne un JSON strict :
{
  "job_title": "Le titre exact du poste",
  "company": "Le nom de l'entreprise",
  "location": "Ville, PAYS (ex: Montréal, CANADA)",
  "dates_raw": "Les dates exactes telles qu'écrites",
  "date_start": "YYYY-MM",
  "date_end": "YYYY-MM ou vide si en cours",
  "is_current": false,
  "summary": "Court résumé si présent, sinon vide",
  "tasks": ["Tâche 1", "Tâche 2"],
  "skills": ["Java", "Python"]
}

Bloc à analyser :
"""%s"""`

const educationSystemPrompt = "Tu es un expert en analyse de CV chargé de structurer des formations " +
	"académiques sans jamais inventer d'information."

const educationUserPrompt = `Tu reçois la section formation d'un CV. Extrait chaque diplôme ou formation mentionné.

Contraintes :
1. Ne crée jamais de formation qui n'existe pas dans le texte.
2. "year" est l'année d'obtention si écrite, vide sinon.
3. "full_text" reprend la ligne source telle quelle.

Retourne un JSON strict :
{
  "education": [
    {"degree": "Master Informatique", "school": "Université de Montréal", "year": "2016", "full_text": "..."}
  ]
}

Texte à analyser :
"""%s"""`

const segmentationSystemPrompt = "Tu es un expert en analyse de CV chargé de découper un document en sections, " +
	"sans modifier ni résumer le texte."

const segmentationUserPrompt = `Découpe le CV suivant en sections. Types permis : HEADER, SUMMARY, EXPERIENCE, EDUCATION, SKILLS, PROJECTS, LANGUAGES, UNKNOWN.

Contraintes :
1. Chaque caractère du document appartient à exactement une section, dans l'ordre d'origine.
2. "text" reprend le texte source tel quel, sans reformulation.

Retourne un JSON strict :
{
  "blocks": [
    {"type": "HEADER", "text": "..."},
    {"type": "EXPERIENCE", "text": "..."}
  ]
}

Document :
"""%s"""`

func buildContactPrompt(textHead string) string {
	return fmt.Sprintf(contactUserPrompt, strings.TrimSpace(textHead))
}

func buildExperiencePrompt(blockText string) string {
	return fmt.Sprintf(experienceUserPrompt, strings.TrimSpace(blockText))
}

func buildEducationPrompt(sectionText string) string {
	return fmt.Sprintf(educationUserPrompt, strings.TrimSpace(sectionText))
}

func buildSegmentationPrompt(text string) string {
	return fmt.Sprintf(segmentationUserPrompt, strings.TrimSpace(text))
}
