package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"invclean/internal/domain"
)

// Placeholder values returned instead of a live classification
const (
	PlaceholderUnknown = "llm_generated_unknown"
	PlaceholderSite    = "llm_generated_UNKNOWN"
)

// Placeholder returns the fixed substitute output columns for a field kind.
// Owner email is empty (null).
func Placeholder(field Field) (map[string]string, error) {
	switch field {
	case FieldOwner:
		return map[string]string{
			domain.FieldOwner:      PlaceholderUnknown,
			domain.FieldOwnerEmail: "",
			domain.FieldOwnerTeam:  PlaceholderUnknown,
		}, nil
	case FieldDeviceType:
		return map[string]string{
			domain.FieldDeviceType:           PlaceholderUnknown,
			domain.FieldDeviceTypeConfidence: string(domain.ConfidenceLow),
		}, nil
	case FieldSite:
		return map[string]string{
			domain.FieldSiteNormalized: PlaceholderSite,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

// PlaceholderOracle never performs a live call: it renders the prompt that
// would have been sent, hands it to a recorder, and returns the placeholder.
type PlaceholderOracle struct {
	recorder PromptRecorder
	logger   *slog.Logger
}

// NewPlaceholderOracle creates a placeholder oracle. A nil recorder skips
// prompt rendering.
func NewPlaceholderOracle(recorder PromptRecorder, logger *slog.Logger) *PlaceholderOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceholderOracle{recorder: recorder, logger: logger}
}

// ResolveOwner returns the owner placeholder
func (p *PlaceholderOracle) ResolveOwner(ctx context.Context, req Request) (OwnerAnswer, error) {
	values, err := p.answer(ctx, FieldOwner, req)
	if err != nil {
		return OwnerAnswer{}, err
	}
	return OwnerAnswer{
		Owner:  values[domain.FieldOwner],
		Email:  values[domain.FieldOwnerEmail],
		Team:   values[domain.FieldOwnerTeam],
		Source: SourcePlaceholder,
	}, nil
}

// ClassifyDevice returns the device type placeholder
func (p *PlaceholderOracle) ClassifyDevice(ctx context.Context, req Request) (DeviceAnswer, error) {
	values, err := p.answer(ctx, FieldDeviceType, req)
	if err != nil {
		return DeviceAnswer{}, err
	}
	return DeviceAnswer{
		DeviceType: values[domain.FieldDeviceType],
		Confidence: domain.ParseConfidence(values[domain.FieldDeviceTypeConfidence]),
		Source:     SourcePlaceholder,
	}, nil
}

// NormalizeSite returns the site placeholder
func (p *PlaceholderOracle) NormalizeSite(ctx context.Context, req Request) (SiteAnswer, error) {
	values, err := p.answer(ctx, FieldSite, req)
	if err != nil {
		return SiteAnswer{}, err
	}
	return SiteAnswer{
		Normalized: values[domain.FieldSiteNormalized],
		Source:     SourcePlaceholder,
	}, nil
}

// answer records the would-be prompt and looks up the placeholder. The
// request must be for the field the operation serves.
func (p *PlaceholderOracle) answer(ctx context.Context, op Field, req Request) (map[string]string, error) {
	if req.Field != op {
		return nil, fmt.Errorf("%w: %s requested through %s", ErrUnknownField, req.Field, op)
	}
	values, err := Placeholder(req.Field)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.recorder != nil {
		if err := p.record(req); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("field deferred to placeholder",
		"field", string(req.Field),
		"row", req.RowID)

	return values, nil
}

func (p *PlaceholderOracle) record(req Request) error {
	prompt, err := RenderPrompt(req)
	if err != nil {
		return err
	}
	schema, err := ExpectedSchema(req.Field)
	if err != nil {
		return err
	}
	err = p.recorder.Record(PromptEntry{
		Field:     req.Field,
		RowID:     req.RowID,
		Prompt:    prompt,
		Rationale: req.Rationale,
		Schema:    schema,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPromptLog, err)
	}
	return nil
}
