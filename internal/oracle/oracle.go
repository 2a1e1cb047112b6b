package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"invclean/internal/domain"
)

// ErrUnknownField is returned when a substitute is requested for a field kind
// the oracle does not handle. It aborts the run.
var ErrUnknownField = errors.New("unknown field for oracle placeholder")

// ErrPromptLog is returned when a deferred prompt cannot be recorded. It
// aborts the run.
var ErrPromptLog = errors.New("prompt log write failed")

// Field identifies a deferrable field kind
type Field string

const (
	FieldOwner      Field = domain.FieldOwner
	FieldDeviceType Field = domain.FieldDeviceType
	FieldSite       Field = domain.FieldSite
)

// Fields lists every deferrable field kind
var Fields = []Field{FieldOwner, FieldDeviceType, FieldSite}

// Title returns the display name used in prompt log headings ("Device Type")
func (f Field) Title() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(f), "_", " "))
}

// IsKnown reports whether the oracle handles this field kind
func (f Field) IsKnown() bool {
	_, ok := contextFields[f]
	return ok
}

// Source tags where an answer came from
type Source string

const (
	// SourceResolved - a classifier produced the value
	SourceResolved Source = "resolved"
	// SourcePlaceholder - a fixed substitute was returned without a live call
	SourcePlaceholder Source = "placeholder"
)

// contextFields are the row fields sent with a request, per field kind
var contextFields = map[Field][]string{
	FieldOwner:      {domain.FieldOwner, domain.FieldHostname, domain.FieldDeviceType, domain.FieldSite, domain.FieldSourceRowID},
	FieldDeviceType: {domain.FieldDeviceType, domain.FieldHostname, domain.FieldOwner, domain.FieldSite, domain.FieldSourceRowID},
	FieldSite:       {domain.FieldSite, domain.FieldHostname, domain.FieldOwner, domain.FieldDeviceType, domain.FieldSourceRowID},
}

// Request is one deferred field sent to the oracle
type Request struct {
	Field     Field
	RowID     string
	RawValue  string
	Row       map[string]string // contextual subset of the raw record
	Notes     string
	Rationale string // why deterministic rules could not resolve the field
}

// NewRequest builds the request for a deferred field of a record
func NewRequest(field Field, record domain.Record) (Request, error) {
	if !field.IsKnown() {
		return Request{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	names := contextFields[field]

	raw := record.Value(string(field))
	return Request{
		Field:     field,
		RowID:     record.SourceRowID(),
		RawValue:  raw,
		Row:       record.Subset(names...),
		Notes:     record.Value(domain.FieldNotes),
		Rationale: rationale(field, raw),
	}, nil
}

func rationale(field Field, raw string) string {
	switch field {
	case FieldOwner:
		return fmt.Sprintf("Deterministic rules failed because owner_raw='%s' did not include a clear name, email, or team tag.", raw)
	case FieldDeviceType:
		return fmt.Sprintf("Unable to classify device_raw='%s' using keyword/model rules.", raw)
	case FieldSite:
		return fmt.Sprintf("Site '%s' did not match known location patterns and abbreviation rules could not normalize it.", raw)
	default:
		return ""
	}
}

// OwnerAnswer is the oracle's substitute for the owner columns
type OwnerAnswer struct {
	Owner  string
	Email  string // empty means null
	Team   string
	Source Source
}

// DeviceAnswer is the oracle's substitute for the device type columns
type DeviceAnswer struct {
	DeviceType string
	Confidence domain.Confidence
	Source     Source
}

// SiteAnswer is the oracle's substitute for the normalized site
type SiteAnswer struct {
	Normalized string
	Source     Source
}

// Oracle resolves fields that deterministic rules could not.
// Implementations must return ErrUnknownField (possibly wrapped) only for
// contract violations; any other error is recorded against the row.
type Oracle interface {
	// ResolveOwner supplies owner, email, and team
	ResolveOwner(ctx context.Context, req Request) (OwnerAnswer, error)

	// ClassifyDevice supplies a canonical device type and its confidence
	ClassifyDevice(ctx context.Context, req Request) (DeviceAnswer, error)

	// NormalizeSite supplies a canonical site code
	NormalizeSite(ctx context.Context, req Request) (SiteAnswer, error)
}
