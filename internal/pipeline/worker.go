package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/cvextract/internal/anchor"
	"github.com/dgallion1/cvextract/internal/cv"
	"github.com/dgallion1/cvextract/internal/experience"
	"github.com/dgallion1/cvextract/internal/extract"
	"github.com/dgallion1/cvextract/internal/parser"
	"github.com/dgallion1/cvextract/internal/segment"
	"github.com/dgallion1/cvextract/internal/store"
	"github.com/dgallion1/cvextract/internal/textnorm"
	"github.com/dgallion1/cvextract/internal/validate"
)

// Worker processes a single document job end to end: parse, normalize,
// anchor extraction, segmentation, model extraction, validation, persistence.
type Worker struct {
	extractor *extract.Extractor
	docs      *store.DocumentStore
	log       *slog.Logger

	entityCfg   anchor.EntityConfig
	segStrategy string

	// now is swappable so duration tests are deterministic.
	now func() time.Time
}

func NewWorker(extractor *extract.Extractor, docs *store.DocumentStore, log *slog.Logger, entityCfg anchor.EntityConfig, segStrategy string) *Worker {
	return &Worker{
		extractor:   extractor,
		docs:        docs,
		log:         log,
		entityCfg:   entityCfg,
		segStrategy: segStrategy,
		now:         time.Now,
	}
}

// Process runs the full extraction pipeline for a job. Model failures on
// individual entries degrade the job to partial; the job fails outright only
// when nothing at all could be extracted.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	fail := func(phase, msg string) {
		log.Error("job failed", "phase", phase, "error", msg)
		job.AddError(msg)
		job.SetStatus(StatusFailed, phase)
		if err := w.docs.SetStatus(ctx, job.DocID, store.StatusFailed, msg); err != nil {
			log.Error("status update failed", "error", err)
		}
	}

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	if err := w.docs.SetStatus(ctx, job.DocID, store.StatusProcessing, ""); err != nil {
		log.Warn("status update failed", "error", err)
	}

	p, err := parser.ForFile(job.Filename)
	if err != nil {
		fail("parsing", err.Error())
		return
	}
	res, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		fail("parsing", fmt.Sprintf("parse: %s", err))
		return
	}

	text := textnorm.Normalize(res.Text)
	job.SetContentHash(ContentHashHex([]byte(text)))
	if strings.TrimSpace(text) == "" {
		fail("parsing", "no extractable text")
		return
	}

	// Phase 2: Anchors and segmentation. These never fail; an empty anchor
	// list just means fewer split signals.
	job.SetStatus(StatusSegmenting, "segmenting")
	dates := anchor.ExtractDates(text)
	entities := anchor.ExtractEntities(text, w.entityCfg)

	var blocks []segment.Block
	if w.segStrategy == "ai" {
		blocks, err = w.modelSegment(ctx, text, dates, entities)
		if err != nil {
			log.Warn("model segmentation failed, falling back to heuristic", "error", err)
			blocks = nil
		}
	}
	if blocks == nil {
		blocks = segment.Segment(text, dates, entities)
	}

	totalEntries := 0
	for _, b := range blocks {
		totalEntries += len(b.SubBlocks)
	}
	job.SetTotalEntries(totalEntries)
	log.Info("segmented document", "blocks", len(blocks), "job_entries", totalEntries,
		"date_anchors", len(dates), "entity_anchors", len(entities))

	// Phase 3: Model extraction.
	job.SetStatus(StatusExtracting, "extracting")
	var data cv.CVData
	hadErrors := false

	basics, err := w.extractor.ExtractContact(ctx, text)
	if err != nil {
		log.Error("contact extraction failed", "error", err)
		job.AddError(fmt.Sprintf("contact: %s", err))
		hadErrors = true
	}
	data.Basics = basics
	fillContactFallback(&data.Basics, text)

	for _, b := range blocks {
		switch b.Type {
		case segment.TypeExperience:
			for _, sub := range b.SubBlocks {
				entry, err := w.extractor.ExtractExperience(ctx, sub.Text)
				if err != nil {
					log.Error("experience extraction failed", "block", sub.ID, "error", err)
					job.AddError(fmt.Sprintf("entry %s: %s", sub.ID, err))
					hadErrors = true
					continue
				}
				entry.BlockID = sub.ID
				entry.AnchorIDs = sub.Anchors
				if entry.Duration == "" {
					if months := experience.DurationMonths(entry.DateStart, entry.DateEnd, entry.IsCurrent, w.now()); months > 0 {
						entry.Duration = fmt.Sprintf("%d mois", months)
					}
				}
				data.Experience = append(data.Experience, entry)
				job.IncrEntriesExtracted()
			}
		case segment.TypeEducation:
			edu, err := w.extractor.ExtractEducation(ctx, b.Text)
			if err != nil {
				log.Error("education extraction failed", "block", b.ID, "error", err)
				job.AddError(fmt.Sprintf("education %s: %s", b.ID, err))
				hadErrors = true
				continue
			}
			data.Education = append(data.Education, edu...)
		}
		if ctx.Err() != nil {
			fail("extracting", ctx.Err().Error())
			return
		}
	}

	data.RawText = text
	data.TotalExperienceDeclared = declaredExperience(text)

	// Phase 4: Validate. Issues are advisory and never block the result.
	job.SetStatus(StatusValidating, "validating")
	issues := validate.CheckExtraction(&data, validate.BuildAnchorMap(blocks, dates))
	job.SetValidationIssues(len(issues))
	if len(issues) > 0 {
		log.Warn("validation issues", "count", len(issues))
	}

	data.TotalExperienceYears = experience.TotalYears(data.Experience, w.now())

	if hadErrors && len(data.Experience) == 0 && data.Basics.Name == "" {
		fail("extracting", "all extractions failed")
		return
	}

	// Phase 5: Persist.
	if err := w.docs.SaveResult(ctx, job.DocID, &data, issues, res.OCRApplied); err != nil {
		fail("storing", fmt.Sprintf("save result: %s", err))
		return
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("extraction complete", "entries", len(data.Experience),
		"education", len(data.Education), "issues", len(issues),
		"total_years", data.TotalExperienceYears)
}

// modelSegment asks the model to split the document and maps the returned
// spans back onto source offsets so anchors still attach. A span the source
// text does not contain verbatim invalidates the whole result.
func (w *Worker) modelSegment(ctx context.Context, text string, dates []anchor.DateAnchor, entities []anchor.EntityAnchor) ([]segment.Block, error) {
	segs, err := w.extractor.SegmentDocument(ctx, text)
	if err != nil {
		return nil, err
	}

	var blocks []segment.Block
	cursor := 0
	subCount := 0
	for i, sb := range segs {
		t := strings.TrimSpace(sb.Text)
		if t == "" {
			continue
		}
		off := strings.Index(text[cursor:], t)
		if off < 0 {
			return nil, fmt.Errorf("segment %d not found in source text", i)
		}
		start := cursor + off
		end := start + len(t)
		cursor = end

		b := segment.Block{
			ID:       fmt.Sprintf("b%d", len(blocks)+1),
			Type:     blockType(sb.Type),
			Text:     t,
			StartIdx: start,
			EndIdx:   end,
			Anchors:  segment.AnchorsWithin(start, end, dates, entities),
		}
		if b.Type == segment.TypeExperience {
			b.SubBlocks = segment.SplitEntries(text, start, end, dates, entities, &subCount)
		}
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("model returned no usable segments")
	}
	return blocks, nil
}

func blockType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case segment.TypeHeader:
		return segment.TypeHeader
	case segment.TypeSummary:
		return segment.TypeSummary
	case segment.TypeExperience:
		return segment.TypeExperience
	case segment.TypeEducation:
		return segment.TypeEducation
	case segment.TypeSkills:
		return segment.TypeSkills
	case segment.TypeProjects:
		return segment.TypeProjects
	case segment.TypeLanguages:
		return segment.TypeLanguages
	default:
		return segment.TypeUnknown
	}
}

var (
	emailPat = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePat = regexp.MustCompile(`(?:\+?\d{1,3}[ .-]?)?(?:\(\d{3}\)|\d{3})[ .-]?\d{3}[ .-]?\d{4}`)

	declaredPat = regexp.MustCompile(`(?i)\d{1,2}\s*\+?\s*(?:ans|ann[ée]es|years)\s+(?:d['’]\s*exp[ée]rience|of experience|experience)`)
)

// fillContactFallback scans the raw text for fields the model left empty.
// The model is told to prefer empty over invented, so a literal match in the
// source is strictly better than nothing.
func fillContactFallback(b *cv.Basics, text string) {
	if b.Email == "" {
		b.Email = emailPat.FindString(text)
	}
	if b.Phone == "" {
		b.Phone = strings.TrimSpace(phonePat.FindString(text))
	}
}

// declaredExperience returns the candidate's own experience claim verbatim,
// e.g. "10 ans d'expérience", or empty when the document never states one.
func declaredExperience(text string) string {
	return strings.TrimSpace(declaredPat.FindString(text))
}
