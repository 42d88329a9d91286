// Package risk combines the deterministic PII detector with the AI
// collaborator to produce a final verdict and sanitized text for a comment.
//
// The detector always wins: whatever the collaborator says, a detector hit on
// either the input or the collaborator's output forces a high verdict and a
// detector-redacted text. The collaborator being absent, slow, or incoherent
// degrades the verdict, never the write path.
package risk

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"profreview/internal/privacy/piidetect"
)

// Level is the classifier verdict for a piece of text.
type Level string

const (
	LevelLow     Level = "low"
	LevelHigh    Level = "high"
	LevelUnknown Level = "unknown"
)

// NoteCollaboratorUnavailable annotates assessments produced while the
// collaborator could not be reached. Advisory only; submission proceeds.
const NoteCollaboratorUnavailable = "AI service unavailable"

// Assessment is the transient result of one classification call. It is never
// persisted; it drives the submission decision and the client preview.
type Assessment struct {
	OriginalText  string
	RephrasedText string
	Level         Level
	DetectorHits  []piidetect.Category
	Note          string
}

// Collaborator is the external text-judgment service. It may be absent, may
// fail, and may return non-JSON text; all three are expected conditions.
type Collaborator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Classifier struct {
	detector *piidetect.Detector
	collab   Collaborator // nil means detector-only classification
	logger   *slog.Logger
}

// New builds a Classifier. Pass a nil collaborator to run detector-only; the
// dependency is explicit so tests can substitute a fake deterministically.
func New(detector *piidetect.Detector, collab Collaborator, logger *slog.Logger) *Classifier {
	return &Classifier{detector: detector, collab: collab, logger: logger}
}

var tracer = otel.Tracer("profreview/internal/privacy/risk")

// Assess classifies text and returns a sanitized rephrasing. It never returns
// an error: every failure mode degrades to a detector-backed assessment.
func (c *Classifier) Assess(ctx context.Context, text string) Assessment {
	ctx, span := tracer.Start(ctx, "risk.Assess")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return Assessment{Level: LevelLow}
	}

	scan := c.detector.Scan(text)

	if c.collab == nil {
		return c.detectorOnly(text, scan, "")
	}

	// Feed the collaborator already-scrubbed text when the detector found
	// anything, reducing its exposure to raw identifiers.
	input := text
	if scan.HasPersonalInfo {
		input = scan.Redacted
	}

	raw, err := c.generate(ctx, buildPrompt(input))
	if err != nil {
		c.logger.Warn("collaborator call failed, degrading to detector-only",
			"error", err)
		return c.detectorOnly(text, scan, NoteCollaboratorUnavailable)
	}

	assessment := c.merge(text, scan, raw)
	span.SetAttributes(attribute.String("risk.level", string(assessment.Level)))
	return assessment
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "risk.collaborator.generate")
	defer span.End()
	return c.collab.Generate(ctx, prompt)
}

// detectorOnly is the verdict with no collaborator input: high with the
// redacted text on a hit, low with the input unchanged otherwise.
func (c *Classifier) detectorOnly(text string, scan piidetect.Result, note string) Assessment {
	a := Assessment{
		OriginalText:  text,
		RephrasedText: text,
		Level:         LevelLow,
		DetectorHits:  scan.Categories,
		Note:          note,
	}
	if scan.HasPersonalInfo {
		a.Level = LevelHigh
		a.RephrasedText = scan.Redacted
	}
	return a
}

// merge folds the collaborator's raw output into the detector's findings.
func (c *Classifier) merge(text string, scan piidetect.Result, raw string) Assessment {
	v, cleaned, ok := extractVerdict(raw)
	if !ok {
		return c.parseFallback(text, scan, cleaned)
	}

	level := normalizeLevel(v.RiskLevel)
	rephrased := strings.TrimSpace(v.RephrasedText)
	if rephrased == "" {
		rephrased = text
	}

	// Defense in depth: re-scan whatever the collaborator produced. A hit on
	// either pass overrides its judgment.
	rescan := c.detector.Scan(rephrased)
	if rescan.HasPersonalInfo || scan.HasPersonalInfo {
		level = LevelHigh
	}

	return Assessment{
		OriginalText:  text,
		RephrasedText: rescan.Redacted,
		Level:         level,
		DetectorHits:  mergeHits(scan.Categories, rescan.Categories),
	}
}

// parseFallback handles output with no parseable JSON object: a response that
// clearly differs from the input and has some substance is taken as an
// implicit rephrasing (high), anything else as a low-risk echo.
func (c *Classifier) parseFallback(text string, scan piidetect.Result, cleaned string) Assessment {
	c.logger.Warn("collaborator returned malformed response, applying heuristic",
		"response_len", len(cleaned))

	if cleaned != "" && !strings.EqualFold(cleaned, text) && len(cleaned) > 10 {
		rescan := c.detector.Scan(cleaned)
		return Assessment{
			OriginalText:  text,
			RephrasedText: rescan.Redacted,
			Level:         LevelHigh,
			DetectorHits:  mergeHits(scan.Categories, rescan.Categories),
		}
	}

	// The heuristic says low, but a detector hit on the raw input still wins.
	if scan.HasPersonalInfo {
		return c.detectorOnly(text, scan, "")
	}
	return Assessment{
		OriginalText:  text,
		RephrasedText: text,
		Level:         LevelLow,
		DetectorHits:  scan.Categories,
	}
}

func mergeHits(first, second []piidetect.Category) []piidetect.Category {
	seen := make(map[piidetect.Category]bool, len(first))
	out := make([]piidetect.Category, 0, len(first)+len(second))
	for _, set := range [][]piidetect.Category{first, second} {
		for _, cat := range set {
			if !seen[cat] {
				seen[cat] = true
				out = append(out, cat)
			}
		}
	}
	return out
}
