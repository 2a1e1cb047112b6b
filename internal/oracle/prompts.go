package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"invclean/internal/domain"
)

const promptPreamble = `Temperature: 0.2

{{ .Intro }}

## Input Row (JSON)
{{ .Row | toPrettyJson }}

## Notes
{{ .Notes | trim | default "(none)" }}
`

const ownerPromptBody = `
## Task
Parse the owner-related fields and return structured JSON.

- Extract the human owner name (not team, not email).
- Extract the email address if present.
- Extract the team name if present (often in brackets or parentheses).
- If a field cannot be determined, use "unknown" for strings or null for email.

## Output Schema (JSON only, no extra text)
{{ .Schema }}

## Examples
Input: "Jane Doe <jane.doe@acme.com> [NetOps]"
Output: {"owner": "Jane Doe", "owner_email": "jane.doe@acme.com", "owner_team": "NetOps"}

Input: "security-team@acme.com"
Output: {"owner": "unknown", "owner_email": "security-team@acme.com", "owner_team": "unknown"}

Input: "IT Infrastructure Team"
Output: {"owner": "unknown", "owner_email": null, "owner_team": "IT Infrastructure Team"}

Respond with valid JSON only.
`

const devicePromptBody = `
## Task
Determine the canonical device type and confidence level.

Canonical device types:
  {{ .DeviceTypes | join ", " }}

Confidence levels:
  - high: exact keyword match or well-known model
  - medium: substring match or vendor inference
  - low: uncertain or guessing

## Output Schema (JSON only, no extra text)
{{ .Schema }}

## Examples
Input: {"device_type": "Cisco Catalyst 3850"}
Output: {"device_type": "switch", "device_type_confidence": "high"}

Input: {"device_type": "Bob's old machine"}
Output: {"device_type": "workstation", "device_type_confidence": "low"}

Input: {"device_type": "xyzabc123"}
Output: {"device_type": "unknown", "device_type_confidence": "low"}

Respond with valid JSON only.
`

const sitePromptBody = `
## Task
Normalize the site field to a standard uppercase, hyphenated format.

Common normalizations:
  - "Headquarters", "Head Quarters", "Main Office" → "HQ"
  - "Building", "Bldg", "Blg" → "BLDG"
  - "Data Center", "Datacenter" → "DC"
  - City names → airport codes (e.g., "San Francisco" → "SFO")

Rules:
  - Uppercase the result.
  - Replace spaces and underscores with hyphens.
  - Combine components: "HQ Bldg 1" → "HQ-BLDG-1"
  - If unrecognizable, return input uppercased with hyphens.

## Output Schema (JSON only, no extra text)
{{ .Schema }}

## Examples
Input: {"site": "san francisco data center"}
Output: {"site": "san francisco data center", "site_normalized": "SFO-DC"}

Input: {"site": "Headqaurters Bldg 2"}
Output: {"site": "Headqaurters Bldg 2", "site_normalized": "HQ-BLDG-2"}

Input: {"site": ""}
Output: {"site": "", "site_normalized": "UNKNOWN"}

Respond with valid JSON only.
`

// promptSpec holds the per-field pieces of a prompt
type promptSpec struct {
	intro  string
	body   string
	schema map[string]string
}

var promptSpecs = map[Field]promptSpec{
	FieldOwner: {
		intro: "You are a data normalization assistant. Extract owner information from the raw input.",
		body:  ownerPromptBody,
		schema: map[string]string{
			"owner":       "<string or 'unknown'>",
			"owner_email": "<email or null>",
			"owner_team":  "<team or 'unknown'>",
		},
	},
	FieldDeviceType: {
		intro: "You are a network device classification assistant. Classify the device type from the raw input.",
		body:  devicePromptBody,
		schema: map[string]string{
			"device_type":            "<canonical type or 'unknown'>",
			"device_type_confidence": "<low|medium|high>",
		},
	},
	FieldSite: {
		intro: "You are a site/location normalization assistant. Normalize the site name to a canonical format.",
		body:  sitePromptBody,
		schema: map[string]string{
			"site":            "<trimmed original or ''>",
			"site_normalized": "<canonical uppercase or 'UNKNOWN'>",
		},
	},
}

var promptTemplates = func() map[Field]*template.Template {
	out := make(map[Field]*template.Template, len(promptSpecs))
	for field, spec := range promptSpecs {
		out[field] = template.Must(
			template.New(string(field)).
				Option("missingkey=error").
				Funcs(sprig.TxtFuncMap()).
				Parse(promptPreamble + spec.body),
		)
	}
	return out
}()

// ExpectedSchema returns the JSON output schema for a field, indented by two
// spaces with keys sorted
func ExpectedSchema(field Field) (string, error) {
	spec, ok := promptSpecs[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(spec.schema); err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderPrompt renders the classification prompt for a deferred field
func RenderPrompt(req Request) (string, error) {
	tmpl, ok := promptTemplates[req.Field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, req.Field)
	}
	schema, err := ExpectedSchema(req.Field)
	if err != nil {
		return "", err
	}

	row := req.Row
	if row == nil {
		row = map[string]string{}
	}

	data := map[string]any{
		"Intro":       promptSpecs[req.Field].intro,
		"Row":         row,
		"Notes":       req.Notes,
		"Schema":      schema,
		"DeviceTypes": canonicalDeviceTypeNames(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", req.Field, err)
	}
	return buf.String(), nil
}

func canonicalDeviceTypeNames() []string {
	names := make([]string, len(domain.CanonicalDeviceTypes))
	for i, t := range domain.CanonicalDeviceTypes {
		names[i] = string(t)
	}
	return names
}
