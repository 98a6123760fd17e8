package extract

import (
	"context"
	"unicode/utf8"

	"github.com/dgallion1/cvextract/internal/cv"
)

// DefaultContactHeadChars bounds how much of the document head is sent for
// contact extraction; names and coordinates live at the top.
const DefaultContactHeadChars = 2500

// Extractor is the AI extraction facade the pipeline talks to. It owns the
// prompts and the payload-to-record mapping; model selection and retries live
// in the Runner.
type Extractor struct {
	runner    *Runner
	headChars int
}

func NewExtractor(runner *Runner, headChars int) *Extractor {
	if headChars <= 0 {
		headChars = DefaultContactHeadChars
	}
	return &Extractor{runner: runner, headChars: headChars}
}

type contactPayload struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Location  string   `json:"location"`
	Languages []string `json:"languages"`
}

// ExtractContact pulls candidate identity fields from the head of the
// document.
func (e *Extractor) ExtractContact(ctx context.Context, text string) (cv.Basics, error) {
	var p contactPayload
	err := e.runner.CompleteJSON(ctx, contactSystemPrompt, buildContactPrompt(e.head(text)), contactSchema, &p)
	if err != nil {
		return cv.Basics{}, err
	}
	return cv.Basics{
		Name:      p.Name,
		Title:     p.Title,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Languages: p.Languages,
	}, nil
}

type experiencePayload struct {
	JobTitle  string   `json:"job_title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	DatesRaw  string   `json:"dates_raw"`
	DateStart string   `json:"date_start"`
	DateEnd   string   `json:"date_end"`
	IsCurrent bool     `json:"is_current"`
	Summary   string   `json:"summary"`
	Tasks     []string `json:"tasks"`
	Skills    []string `json:"skills"`
}

// ExtractExperience structures one job-entry block. BlockID and AnchorIDs are
// left for the caller, which knows which block the text came from.
func (e *Extractor) ExtractExperience(ctx context.Context, blockText string) (cv.ExperienceEntry, error) {
	var p experiencePayload
	err := e.runner.CompleteJSON(ctx, experienceSystemPrompt, buildExperiencePrompt(blockText), experienceSchema, &p)
	if err != nil {
		return cv.ExperienceEntry{}, err
	}
	return cv.ExperienceEntry{
		Title:     p.JobTitle,
		Company:   p.Company,
		Location:  p.Location,
		DatesRaw:  p.DatesRaw,
		DateStart: p.DateStart,
		DateEnd:   p.DateEnd,
		IsCurrent: p.IsCurrent,
		Summary:   p.Summary,
		Tasks:     p.Tasks,
		Skills:    p.Skills,
	}, nil
}

type educationPayload struct {
	Education []struct {
		Degree   string `json:"degree"`
		School   string `json:"school"`
		Year     string `json:"year"`
		FullText string `json:"full_text"`
	} `json:"education"`
}

// ExtractEducation structures an education section into degree records.
func (e *Extractor) ExtractEducation(ctx context.Context, sectionText string) ([]cv.EducationEntry, error) {
	var p educationPayload
	err := e.runner.CompleteJSON(ctx, educationSystemPrompt, buildEducationPrompt(sectionText), educationSchema, &p)
	if err != nil {
		return nil, err
	}
	entries := make([]cv.EducationEntry, 0, len(p.Education))
	for _, d := range p.Education {
		entries = append(entries, cv.EducationEntry{
			Degree:   d.Degree,
			School:   d.School,
			Year:     d.Year,
			FullText: d.FullText,
		})
	}
	return entries, nil
}

// SegmentedBlock is one section as delimited by the model. Used by the
// AI segmentation strategy instead of the deterministic segmenter.
type SegmentedBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type segmentationPayload struct {
	Blocks []SegmentedBlock `json:"blocks"`
}

// SegmentDocument asks the model to split the whole document into typed
// sections.
func (e *Extractor) SegmentDocument(ctx context.Context, text string) ([]SegmentedBlock, error) {
	var p segmentationPayload
	err := e.runner.CompleteJSON(ctx, segmentationSystemPrompt, buildSegmentationPrompt(text), segmentationSchema, &p)
	if err != nil {
		return nil, err
	}
	return p.Blocks, nil
}

func (e *Extractor) head(text string) string {
	if len(text) <= e.headChars {
		return text
	}
	cut := e.headChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
