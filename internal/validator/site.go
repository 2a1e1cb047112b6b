package validator

import (
	"regexp"
	"strings"

	"invclean/internal/domain"
)

// Substitution is one whole-word, case-insensitive site rewrite
type Substitution struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// word builds a whole-word pattern; spaces in phrase match any run of spaces
// or hyphens, since delimiters are already hyphenated when it runs
func word(phrase, replacement string) Substitution {
	parts := strings.Fields(phrase)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	pattern := `(?i)\b` + strings.Join(parts, `[\s-]*`) + `\b`
	return Substitution{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// CityCodes rewrite city names to airport codes; applied before Abbreviations
var CityCodes = []Substitution{
	word("san francisco", "SFO"),
	word("sf", "SFO"),
	word("new york", "NYC"),
	word("ny", "NYC"),
	word("los angeles", "LAX"),
	word("la", "LAX"),
	word("chicago", "CHI"),
	word("seattle", "SEA"),
	word("boston", "BOS"),
	word("denver", "DEN"),
	word("austin", "AUS"),
	word("atlanta", "ATL"),
	word("london", "LON"),
	word("tokyo", "TYO"),
}

// Abbreviations rewrite generic site terms; applied in order
var Abbreviations = []Substitution{
	word("headquarters", "HQ"),
	word("head quarters", "HQ"),
	word("main office", "HQ"),
	word("hq", "HQ"),
	word("building", "BLDG"),
	word("bldg", "BLDG"),
	word("blg", "BLDG"),
	word("data center", "DC"),
	word("datacenter", "DC"),
	word("dc", "DC"),
	word("lab", "LAB"),
	word("laboratory", "LAB"),
	word("office", "OFFICE"),
	word("remote", "REMOTE"),
	word("warehouse", "WAREHOUSE"),
	word("wh", "WAREHOUSE"),
}

// noSiteTokens are placeholders meaning the site was never recorded
var noSiteTokens = map[string]bool{
	"N/A":     true,
	"NA":      true,
	"NONE":    true,
	"UNKNOWN": true,
	"-":       true,
}

var (
	siteDelimiters = regexp.MustCompile(`[\s_.]+`)
	hyphenRun      = regexp.MustCompile(`-+`)
	structuredSite = regexp.MustCompile(`^[A-Z]{2,4}(-[A-Z0-9]+)*$`)
	plainSiteCode  = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// SiteResult is the outcome of normalizing the site field
type SiteResult struct {
	Original   string // trimmed input, kept as the site output column
	Normalized string
	Confident  bool
}

// IsNoSite reports whether s is blank or a recognized "no value" token
func IsNoSite(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || noSiteTokens[strings.ToUpper(s)]
}

// collapseHyphens merges hyphen runs and trims them from both ends
func collapseHyphens(s string) string {
	return strings.Trim(hyphenRun.ReplaceAllString(s, "-"), "-")
}

// CanonicalSite applies the delimiter, city, and abbreviation rewrites to
// non-blank site text
func CanonicalSite(value string) string {
	value = strings.ToUpper(value)
	value = collapseHyphens(siteDelimiters.ReplaceAllString(value, "-"))

	for _, sub := range CityCodes {
		value = sub.Pattern.ReplaceAllLiteralString(value, sub.Replacement)
	}
	for _, sub := range Abbreviations {
		value = sub.Pattern.ReplaceAllLiteralString(value, sub.Replacement)
	}

	return collapseHyphens(value)
}

// IsStructuredSite reports whether a normalized site looks like a site code
func IsStructuredSite(s string) bool {
	return structuredSite.MatchString(s) || plainSiteCode.MatchString(s)
}

// NormalizeSite canonicalizes the row's site field. A result that is not
// confident and not blank must be deferred to the fallback oracle.
func NormalizeSite(rc *domain.RowContext) SiteResult {
	raw := rc.Record.Value(domain.FieldSite)
	value := strings.TrimSpace(raw)
	rc.AddStep("site: trimmed")

	if IsNoSite(value) {
		return SiteResult{Original: value}
	}

	rc.AddStep("site: uppercased")
	normalized := CanonicalSite(value)
	rc.AddStep("site: delimiters_normalized")

	result := SiteResult{
		Original:   value,
		Normalized: normalized,
		Confident:  IsStructuredSite(normalized),
	}
	if result.Confident {
		rc.AddStep("site: normalized to " + normalized)
	}
	return result
}
