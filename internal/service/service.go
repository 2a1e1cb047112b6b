package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"invclean/internal/codec"
	"invclean/internal/domain"
	"invclean/internal/oracle"
	"invclean/internal/validator"
)

// CleanService runs the validators over every record of an export
type CleanService struct {
	oracle oracle.Oracle
	logger *slog.Logger
	runID  string
}

// NewCleanService creates a new clean service
func NewCleanService(o oracle.Oracle, logger *slog.Logger) *CleanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanService{
		oracle: o,
		logger: logger,
	}
}

// WithRunID sets the identifier attached to the run's logs and summary
func (s *CleanService) WithRunID(id string) *CleanService {
	s.runID = id
	return s
}

// Result holds everything one run produces
type Result struct {
	Header  []string
	Records []domain.NormalizedRecord
	Ledger  *domain.Ledger
	Summary Summary
}

// rowOutcome is the cleaned form of one record
type rowOutcome struct {
	Record    domain.NormalizedRecord
	Anomalies []domain.Anomaly
	Deferred  []oracle.Field
}

// Run cleans every record of the table in input order. Only a contract
// violation by the oracle (oracle.ErrUnknownField), a failed prompt log write
// (oracle.ErrPromptLog) or cancellation stops the run; data problems end up
// in the ledger.
func (s *CleanService) Run(ctx context.Context, table *codec.Table) (*Result, error) {
	runID := s.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := s.logger.With("run_id", runID)
	logger.Info("clean run started", "rows", len(table.Records))

	result := &Result{
		Header:  domain.OutputHeader(table.Header),
		Records: make([]domain.NormalizedRecord, 0, len(table.Records)),
		Ledger:  domain.NewLedger(),
	}
	deferred := make(map[oracle.Field]int)

	for _, record := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := s.process(ctx, logger, record, table.Header)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", record.SourceRowID(), err)
		}

		result.Records = append(result.Records, outcome.Record)
		result.Ledger.Add(record.SourceRowID(), outcome.Anomalies)
		for _, f := range outcome.Deferred {
			deferred[f]++
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := Summarize(result.Header, result.Records, result.Ledger, deferred)
	if err != nil {
		return nil, err
	}
	summary.RunID = runID
	result.Summary = summary

	logger.Info("clean run finished",
		"rows", summary.Rows,
		"flagged", summary.Flagged,
		"anomalies", summary.Anomalies,
		"digest", summary.Digest)

	return result, nil
}

// process cleans a single record whose columns follow header
func (s *CleanService) process(ctx context.Context, logger *slog.Logger, record domain.Record, header []string) (rowOutcome, error) {
	rc := domain.NewRowContext(record)
	var deferred []oracle.Field

	address := validator.ValidateAddress(rc)
	mac := validator.ValidateMAC(rc)
	hostname := validator.ValidateHostname(rc)
	rc.SetAddress(address.Value, address.Valid)
	fqdn := validator.ValidateFQDN(rc, hostname)

	owner := validator.ResolveOwner(rc)
	if !owner.Confident && strings.TrimSpace(record.Value(domain.FieldOwner)) != "" {
		answer, ok, err := s.deferOwner(ctx, rc)
		if err != nil {
			return rowOutcome{}, err
		}
		if ok {
			owner = validator.OwnerResult{Owner: answer.Owner, Email: answer.Email, Team: answer.Team}
			deferred = append(deferred, oracle.FieldOwner)
		}
	}

	device := validator.ClassifyDevice(rc)
	if !device.Confidence.Accepted() {
		answer, ok, err := s.deferDevice(ctx, rc)
		if err != nil {
			return rowOutcome{}, err
		}
		if ok {
			// oracle answers are never trusted above low
			device = validator.DeviceResult{Value: answer.DeviceType, Confidence: domain.ConfidenceLow}
			deferred = append(deferred, oracle.FieldDeviceType)
		}
	}

	site := validator.NormalizeSite(rc)
	if !site.Confident && !validator.IsNoSite(record.Value(domain.FieldSite)) {
		answer, ok, err := s.deferSite(ctx, rc)
		if err != nil {
			return rowOutcome{}, err
		}
		if ok {
			site.Normalized = answer.Normalized
			deferred = append(deferred, oracle.FieldSite)
		}
	}

	for _, f := range deferred {
		logger.Debug("field deferred to oracle", "field", string(f), "row", record.SourceRowID())
	}
	if rc.HasAnomalies() {
		logger.Debug("row flagged", "row", record.SourceRowID(), "anomalies", len(rc.Anomalies()))
	}

	values := map[string]string{
		domain.FieldIP:                   address.Value,
		domain.FieldIPValid:              domain.FormatBool(address.Valid),
		domain.FieldIPVersion:            address.Version,
		domain.FieldSubnetCIDR:           address.Subnet,
		domain.FieldMAC:                  mac.Value,
		domain.FieldMACValid:             domain.FormatBool(mac.Valid),
		domain.FieldHostname:             hostname.Value,
		domain.FieldHostnameValid:        domain.FormatBool(hostname.Valid),
		domain.FieldFQDN:                 fqdn.Value,
		domain.FieldFQDNConsistent:       domain.FormatBool(fqdn.Consistent),
		domain.FieldReversePTR:           fqdn.ReversePTR,
		domain.FieldOwner:                owner.Owner,
		domain.FieldOwnerEmail:           owner.Email,
		domain.FieldOwnerTeam:            owner.Team,
		domain.FieldDeviceType:           device.Value,
		domain.FieldDeviceTypeConfidence: string(device.Confidence),
		domain.FieldNormalizationSteps:   rc.JoinedSteps(),
		domain.FieldSourceRowID:          record.SourceRowID(),
		domain.FieldSiteNormalized:       site.Normalized,
	}
	for _, name := range domain.PassThroughFields(header) {
		if name == domain.FieldSite {
			values[name] = site.Original
			continue
		}
		values[name] = record.Value(name)
	}

	return rowOutcome{
		Record:    domain.NormalizedRecord{Fields: domain.OutputHeader(header), Values: values},
		Anomalies: rc.Anomalies(),
		Deferred:  deferred,
	}, nil
}

// deferral audit steps; every oracle-supplied value is tagged low confidence
func deferralStep(field oracle.Field, source oracle.Source) string {
	if source == oracle.SourcePlaceholder {
		return string(field) + ": llm_generated_placeholder (confidence=low)"
	}
	return string(field) + ": oracle_resolved (confidence=low)"
}

// unresolved records that the oracle could not answer. ErrUnknownField and
// ErrPromptLog are returned as-is so the run aborts.
func unresolved(rc *domain.RowContext, field oracle.Field, t domain.AnomalyType, err error) error {
	if errors.Is(err, oracle.ErrUnknownField) || errors.Is(err, oracle.ErrPromptLog) {
		return err
	}
	rc.Flag(t, rc.Record.Value(string(field)))
	rc.AddStep(string(field) + ": oracle_unavailable")
	return nil
}

func (s *CleanService) deferOwner(ctx context.Context, rc *domain.RowContext) (oracle.OwnerAnswer, bool, error) {
	req, err := oracle.NewRequest(oracle.FieldOwner, rc.Record)
	if err != nil {
		return oracle.OwnerAnswer{}, false, err
	}
	answer, err := s.oracle.ResolveOwner(ctx, req)
	if err != nil {
		return answer, false, unresolved(rc, oracle.FieldOwner, domain.AnomalyOwnerUnresolved, err)
	}
	rc.AddStep(deferralStep(oracle.FieldOwner, answer.Source))
	return answer, true, nil
}

func (s *CleanService) deferDevice(ctx context.Context, rc *domain.RowContext) (oracle.DeviceAnswer, bool, error) {
	req, err := oracle.NewRequest(oracle.FieldDeviceType, rc.Record)
	if err != nil {
		return oracle.DeviceAnswer{}, false, err
	}
	answer, err := s.oracle.ClassifyDevice(ctx, req)
	if err != nil {
		return answer, false, unresolved(rc, oracle.FieldDeviceType, domain.AnomalyDeviceTypeUnresolved, err)
	}
	rc.AddStep(deferralStep(oracle.FieldDeviceType, answer.Source))
	return answer, true, nil
}

func (s *CleanService) deferSite(ctx context.Context, rc *domain.RowContext) (oracle.SiteAnswer, bool, error) {
	req, err := oracle.NewRequest(oracle.FieldSite, rc.Record)
	if err != nil {
		return oracle.SiteAnswer{}, false, err
	}
	answer, err := s.oracle.NormalizeSite(ctx, req)
	if err != nil {
		return answer, false, unresolved(rc, oracle.FieldSite, domain.AnomalySiteUnresolved, err)
	}
	rc.AddStep(deferralStep(oracle.FieldSite, answer.Source))
	return answer, true, nil
}
