package validator

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"invclean/internal/domain"
)

// OwnerUnknown is the owner recorded when only a team could be identified
const OwnerUnknown = "unknown"

// OwnerBasis records which rule of the decision ladder resolved an owner
type OwnerBasis string

const (
	OwnerBasisEmail     OwnerBasis = "email"
	OwnerBasisTeamTag   OwnerBasis = "team_tag"
	OwnerBasisHumanName OwnerBasis = "human_name"
	OwnerBasisKnownTeam OwnerBasis = "known_team"
	OwnerBasisNone      OwnerBasis = ""
)

// KnownTeams is the whitelist of bare team names accepted without a tag
var KnownTeams = []string{
	"netops",
	"secops",
	"devops",
	"sre",
	"noc",
	"soc",
	"it",
	"ops",
	"operations",
	"infra",
	"infrastructure",
	"network",
	"networking",
	"security",
	"platform",
	"helpdesk",
	"servicedesk",
	"facilities",
	"dba",
	"qa",
}

var (
	emailPattern       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	teamBracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)
	teamParenPattern   = regexp.MustCompile(`\(([^)]+)\)`)
	teamPrefixPattern  = regexp.MustCompile(`(?i)team\s*:\s*(.+)`)
	angleBrackets      = regexp.MustCompile(`[<>]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	localPartSeparator = regexp.MustCompile(`[._-]+`)
)

// teamTagRules are tried in priority order; the first that yields a
// non-blank tag wins
var teamTagRules = []struct {
	pattern *regexp.Regexp
	step    func(team string) string
}{
	{teamBracketPattern, func(team string) string { return "owner_team: extracted from brackets [" + team + "]" }},
	{teamParenPattern, func(team string) string { return "owner_team: extracted from parentheses (" + team + ")" }},
	{teamPrefixPattern, func(team string) string { return "owner_team: extracted from prefix Team: " + team }},
}

// OwnerResult is the outcome of resolving the owner field
type OwnerResult struct {
	Owner     string
	Email     string
	Team      string
	Confident bool
	Basis     OwnerBasis
}

// titleCase upper-cases the first letter of each word and lower-cases the rest.
// Words break on Unicode word boundaries, so an apostrophe stays inside a
// word ("O'brien") while a hyphen starts a new one ("Mary-Jane").
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// cleanOwnerText strips angle brackets and collapses whitespace
func cleanOwnerText(s string) string {
	s = angleBrackets.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// isKnownTeam reports whether token is on the team whitelist, ignoring case
func isKnownTeam(token string) bool {
	for _, team := range KnownTeams {
		if strings.EqualFold(team, token) {
			return true
		}
	}
	return false
}

// isAlphaToken reports whether every rune of s is a letter
func isAlphaToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// nameFromEmail derives a display name from an address's local part
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return titleCase(strings.TrimSpace(localPartSeparator.ReplaceAllString(local, " ")))
}

// ResolveOwner extracts person, email, and team from the row's free-text owner
// field. Extraction always runs email first, then the team tag; the decision
// ladder then picks the first rule that applies. A result that is not
// confident must be deferred to the fallback oracle by the caller.
// Blank input is not an anomaly.
func ResolveOwner(rc *domain.RowContext) OwnerResult {
	raw := rc.Record.Value(domain.FieldOwner)
	value := strings.TrimSpace(raw)
	if value == "" {
		return OwnerResult{}
	}
	rc.AddStep("owner: trimmed")

	var result OwnerResult

	if email := emailPattern.FindString(value); email != "" {
		result.Email = email
		rc.AddStep("owner_email: extracted " + email)
		value = strings.ReplaceAll(value, email, "")
	}

	for _, rule := range teamTagRules {
		m := rule.pattern.FindStringSubmatch(value)
		if m == nil {
			continue
		}
		team := strings.TrimSpace(m[1])
		if team == "" {
			continue
		}
		result.Team = team
		rc.AddStep(rule.step(team))
		value = rule.pattern.ReplaceAllString(value, "")
		break
	}

	value = cleanOwnerText(value)
	tokens := strings.Fields(value)

	switch {
	case result.Email != "":
		result.Confident = true
		result.Basis = OwnerBasisEmail
		if value != "" {
			result.Owner = titleCase(value)
			rc.AddStep("owner: extracted name " + result.Owner)
		} else {
			result.Owner = nameFromEmail(result.Email)
			rc.AddStep("owner: derived from email as " + result.Owner)
		}

	case result.Team != "":
		result.Confident = true
		result.Basis = OwnerBasisTeamTag
		if value != "" {
			result.Owner = titleCase(value)
			rc.AddStep("owner: extracted name " + result.Owner)
		}

	case len(tokens) >= 2 && allAlpha(tokens):
		result.Confident = true
		result.Basis = OwnerBasisHumanName
		result.Owner = titleCase(value)
		rc.AddStep("owner: extracted name " + result.Owner)

	case len(tokens) == 1 && isKnownTeam(tokens[0]):
		result.Confident = true
		result.Basis = OwnerBasisKnownTeam
		result.Owner = OwnerUnknown
		result.Team = titleCase(tokens[0])
		rc.AddStep("owner_team: matched known team " + result.Team)

	default:
		// not confident; the cleaned text is kept for the caller
		result.Owner = value
	}

	return result
}

func allAlpha(tokens []string) bool {
	for _, t := range tokens {
		if !isAlphaToken(t) {
			return false
		}
	}
	return true
}
