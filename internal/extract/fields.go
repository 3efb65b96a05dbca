package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mkravets/claimlens/internal/model"
)

// ClaimExtractor parses unstructured claim documents into structured records.
// Each field has an ordered pattern cascade: patterns are tried in priority
// order and the first match wins. A field with no match degrades to its
// sentinel, never to an error.
type ClaimExtractor struct {
	caseIDPatterns      []*regexp.Regexp
	claimTypePatterns   []*regexp.Regexp
	claimTypeKeywords   []string
	statePatterns       []*regexp.Regexp
	policyTypePatterns  []*regexp.Regexp
	policyTypeKeywords  []string
	amountPatterns      []*regexp.Regexp
	datePatterns        []*regexp.Regexp
	flagKeywords        []string
	descriptionPatterns []*regexp.Regexp
}

// usStates is the set of valid two-letter state codes. A state-shaped match
// outside this set is discarded and the cascade continues.
var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

const (
	descriptionCap = 500
	minParagraph   = 50
)

// NewClaimExtractor creates an extractor with all pattern cascades compiled
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		caseIDPatterns: compileAll(
			`(?i)case\s*id[:\s]+([A-Z0-9\-]+)`,
			`(?i)case\s*#\s*([A-Z0-9\-]+)`,
			`(?i)case\s*number[:\s]+([A-Z0-9\-]+)`,
			`(?i)claim\s*id[:\s]+([A-Z0-9\-]+)`,
			`(?i)claim\s*#\s*([A-Z0-9\-]+)`,
			`(?i)id[:\s]+([A-Z]{2,}\d{4,})`,
		),
		claimTypePatterns: compileAll(
			`(?i)claim\s*type[:\s]+([^\n]+)`,
			`(?i)type\s*of\s*claim[:\s]+([^\n]+)`,
			`(?i)claim\s*category[:\s]+([^\n]+)`,
		),
		claimTypeKeywords: []string{
			"auto", "health", "property", "life",
			"disability", "liability", "medical", "accident",
		},
		statePatterns: compileAll(
			`(?i:state)[:\s]+([A-Z]{2})\b`,
			`(?i:location)[:\s]+([A-Z]{2})\b`,
			`\b([A-Z]{2})\s+(?i:state)\b`,
		),
		policyTypePatterns: compileAll(
			`(?i)policy\s*type[:\s]+([^\n]+)`,
			`(?i)type\s*of\s*policy[:\s]+([^\n]+)`,
			`(?i)policy\s*category[:\s]+([^\n]+)`,
		),
		policyTypeKeywords: []string{
			"individual", "group", "family", "corporate", "commercial", "personal",
		},
		amountPatterns: compileAll(
			`(?i)claim\s*amount[:\s$]+([\d,]+\.?\d*)`,
			`(?i)amount[:\s$]+([\d,]+\.?\d*)`,
			`\$([\d,]+\.?\d*)`,
			`(?i)([\d,]+\.?\d*)\s*dollars?`,
		),
		datePatterns: compileAll(
			`(?i)filed?\s*date[:\s]+([^\n]+)`,
			`(?i)date\s*filed[:\s]+([^\n]+)`,
			`(?i)submission\s*date[:\s]+([^\n]+)`,
			`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(\d{4}[/-]\d{1,2}[/-]\d{1,2})`,
		),
		flagKeywords: []string{
			"urgent", "priority", "fraud", "investigation",
			"appeal", "denied", "approved", "pending", "review",
		},
		descriptionPatterns: compileAll(
			`(?i)description[:\s]+([^\n]+(?:\n[^\n]+){0,10})`,
			`(?i)case\s*description[:\s]+([^\n]+(?:\n[^\n]+){0,10})`,
			`(?i)details[:\s]+([^\n]+(?:\n[^\n]+){0,10})`,
		),
	}
}

// Extract produces a fully populated ClaimRecord from raw document text.
// It is pure and total: absence of a field is not an error.
func (e *ClaimExtractor) Extract(text string) model.ClaimRecord {
	rec := model.NewClaimRecord()
	lower := strings.ToLower(text)

	if v, ok := firstMatch(e.caseIDPatterns, text); ok {
		rec.CaseID = v
	}

	if v, ok := firstMatch(e.claimTypePatterns, text); ok {
		rec.ClaimType = v
	} else if v, ok := firstKeyword(e.claimTypeKeywords, lower); ok {
		rec.ClaimType = capitalize(v)
	}

	for _, p := range e.statePatterns {
		m := p.FindStringSubmatch(text)
		if m != nil && usStates[m[1]] {
			rec.State = m[1]
			break
		}
	}

	if v, ok := firstMatch(e.policyTypePatterns, text); ok {
		rec.PolicyType = v
	} else if v, ok := firstKeyword(e.policyTypeKeywords, lower); ok {
		rec.PolicyType = capitalize(v)
	}

	if v, ok := e.maxAmount(text); ok {
		rec.ClaimAmount = v
	}

	if v, ok := firstMatch(e.datePatterns, text); ok {
		rec.FiledDate = v
	}

	// Flags use set semantics, independent of first-match-wins: every
	// vocabulary keyword present anywhere counts once, vocabulary order.
	for _, kw := range e.flagKeywords {
		if strings.Contains(lower, kw) {
			rec.SpecialFlags = append(rec.SpecialFlags, capitalize(kw))
		}
	}

	if v, ok := firstMatch(e.descriptionPatterns, text); ok {
		rec.CaseDescription = truncate(v, descriptionCap)
	} else if v, ok := firstParagraph(text); ok {
		rec.CaseDescription = truncate(v, descriptionCap)
	}

	return rec
}

// maxAmount collects every amount-shaped match across all patterns and keeps
// the maximum. Known heuristic limitation: deductibles, limits, or other
// unrelated figures can win when they exceed the actual claim amount.
func (e *ClaimExtractor) maxAmount(text string) (string, bool) {
	best := 0.0
	found := false
	for _, p := range e.amountPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	if !found {
		return "", false
	}
	return "$" + formatAmount(best), true
}

// firstMatch runs a pattern cascade and returns the first capture, trimmed
func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// firstKeyword scans a vocabulary in declaration order against lowered text
func firstKeyword(keywords []string, lower string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// firstParagraph returns the first blank-line-separated block longer than
// minParagraph characters
func firstParagraph(text string) (string, bool) {
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) > minParagraph {
			return p, true
		}
	}
	return "", false
}

// formatAmount renders a dollar value with thousands separators and two
// decimal places, e.g. 12500 -> "12,500.00"
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String() + frac
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
