// Package piidetect finds and redacts personally identifying content in
// review text. Detection is pure pattern matching: deterministic, explainable,
// and never dependent on the network, so it can always run as the last line of
// defense even when the AI collaborator is down.
package piidetect

import "regexp"

// Category tags which kind of identifier a pattern group matched.
type Category string

const (
	CategoryEmail Category = "email"
	CategoryPhone Category = "phone"
	CategoryName  Category = "name"
	CategoryID    Category = "id"
)

// Result reports what the scan found. Redacted is the input with every match
// replaced by its category placeholder; Categories lists the categories that
// fired, in scan order.
type Result struct {
	HasPersonalInfo bool
	Redacted        string
	Categories      []Category
}

type patternGroup struct {
	category    Category
	placeholder string
	patterns    []*regexp.Regexp
	// keepPrefix patterns capture a leading phrase in group 1 that survives
	// redaction ("my name is [name removed]").
	keepPrefix bool
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

var phonePatterns = []*regexp.Regexp{
	// International prefix with separators.
	regexp.MustCompile(`\+\d{1,3}(?:[-.\s]\d{2,4}){2,4}`),
	// Parenthesized area code.
	regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}`),
	// Hyphen/dot/space separated 3-3-4 groups.
	regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`),
	// Bare 10-digit run. The boundaries keep it from matching inside longer
	// numeric or alphanumeric strings.
	regexp.MustCompile(`\b\d{10}\b`),
}

// Name indicator phrases are case-insensitive; the captured name shape is not,
// so "call me john" does not fire but "call me John" does.
var namePattern = regexp.MustCompile(
	`\b((?i:my name is|i'?m|i am|this is|call me|signed|hi)\s+)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

var idPatterns = []*regexp.Regexp{
	// Prefixed forms: "student id: 12345", "uid 999999", "id 123456".
	regexp.MustCompile(`(?i)\b(?:student\s*id|uid|id)\s*[:#]?\s*\d{4,10}\b`),
	// Bare alphanumeric shapes, letters-then-digits and the reverse.
	regexp.MustCompile(`\b[A-Za-z]{1,3}\d{4,10}\b`),
	regexp.MustCompile(`\b\d{4,10}[A-Za-z]{1,3}\b`),
	regexp.MustCompile(`#\d{4,10}\b`),
}

// Detector applies the category groups in a fixed order: email, phone, name,
// ID. Redaction runs category-by-category over the partially redacted text, so
// a later, broader category sees (and may re-match) earlier placeholders and a
// number consumed by the phone pass is invisible to the ID pass. That ordering
// is observable behavior, pinned by tests; do not reorder the groups.
type Detector struct {
	groups []patternGroup
}

func New() *Detector {
	return &Detector{groups: []patternGroup{
		{category: CategoryEmail, placeholder: "[email removed]", patterns: []*regexp.Regexp{emailPattern}},
		{category: CategoryPhone, placeholder: "[phone number removed]", patterns: phonePatterns},
		{category: CategoryName, placeholder: "[name removed]", patterns: []*regexp.Regexp{namePattern}, keepPrefix: true},
		{category: CategoryID, placeholder: "[ID number removed]", patterns: idPatterns},
	}}
}

// Scan detects and redacts identifying content. Same input, same output,
// always.
func (d *Detector) Scan(text string) Result {
	res := Result{Redacted: text}
	for _, g := range d.groups {
		hit := false
		for _, p := range g.patterns {
			if !p.MatchString(res.Redacted) {
				continue
			}
			hit = true
			if g.keepPrefix {
				res.Redacted = p.ReplaceAllString(res.Redacted, "${1}"+g.placeholder)
			} else {
				res.Redacted = p.ReplaceAllString(res.Redacted, g.placeholder)
			}
		}
		if hit {
			res.HasPersonalInfo = true
			res.Categories = append(res.Categories, g.category)
		}
	}
	return res
}
