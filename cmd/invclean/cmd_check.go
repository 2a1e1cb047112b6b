package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"invclean/internal/domain"
	"invclean/internal/validator"
)

var checkFlags struct {
	hostname string
	ip       string
}

var checkCmd = &cobra.Command{
	Use:   "check <field> <value>",
	Short: "Run a single validator and show its result, steps, and anomalies",
	Long: "Run one field validator over a value without reading an export.\n" +
		"Fields: " + strings.Join(checkableFields(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.hostname, "hostname", "", "Hostname to compare a qualified name against (fqdn only)")
	f.StringVar(&checkFlags.ip, "ip", "", "Address used to derive the reverse pointer (fqdn only)")
}

// checkReport is the outcome of validating one value
type checkReport struct {
	Field     string
	Result    [][2]string
	Steps     []string
	Anomalies []domain.Anomaly
}

type checkFunc func(rc *domain.RowContext) [][2]string

var checks = map[string]checkFunc{
	domain.FieldIP: func(rc *domain.RowContext) [][2]string {
		r := validator.ValidateAddress(rc)
		return [][2]string{
			{"ip", r.Value},
			{"ip_valid", domain.FormatBool(r.Valid)},
			{"ip_version", r.Version},
			{"subnet_cidr", r.Subnet},
			{"class", string(r.Class)},
		}
	},
	domain.FieldMAC: func(rc *domain.RowContext) [][2]string {
		r := validator.ValidateMAC(rc)
		return [][2]string{{"mac", r.Value}, {"mac_valid", domain.FormatBool(r.Valid)}}
	},
	domain.FieldHostname: func(rc *domain.RowContext) [][2]string {
		r := validator.ValidateHostname(rc)
		return [][2]string{{"hostname", r.Value}, {"hostname_valid", domain.FormatBool(r.Valid)}}
	},
	domain.FieldFQDN: func(rc *domain.RowContext) [][2]string {
		var hostname validator.HostnameResult
		if rc.Record.Value(domain.FieldHostname) != "" {
			hostname = validator.ValidateHostname(rc)
		}
		if rc.Record.Value(domain.FieldIP) != "" {
			address := validator.ValidateAddress(rc)
			rc.SetAddress(address.Value, address.Valid)
		}
		r := validator.ValidateFQDN(rc, hostname)
		return [][2]string{
			{"fqdn", r.Value},
			{"fqdn_valid", domain.FormatBool(r.Valid)},
			{"fqdn_consistent", domain.FormatBool(r.Consistent)},
			{"reverse_ptr", r.ReversePTR},
		}
	},
	domain.FieldOwner: func(rc *domain.RowContext) [][2]string {
		r := validator.ResolveOwner(rc)
		return [][2]string{
			{"owner", r.Owner},
			{"owner_email", r.Email},
			{"owner_team", r.Team},
			{"confident", domain.FormatBool(r.Confident)},
			{"basis", string(r.Basis)},
		}
	},
	domain.FieldDeviceType: func(rc *domain.RowContext) [][2]string {
		r := validator.ClassifyDevice(rc)
		return [][2]string{
			{"device_type", r.Value},
			{"device_type_confidence", string(r.Confidence)},
			{"rule", r.Rule},
		}
	},
	domain.FieldSite: func(rc *domain.RowContext) [][2]string {
		r := validator.NormalizeSite(rc)
		return [][2]string{
			{"site", r.Original},
			{"site_normalized", r.Normalized},
			{"confident", domain.FormatBool(r.Confident)},
		}
	},
}

func checkableFields() []string {
	fields := make([]string, 0, len(checks))
	for f := range checks {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// checkValue validates value as field; extra supplies sibling fields
func checkValue(field, value string, extra map[string]string) (*checkReport, error) {
	fn, ok := checks[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q (want one of %s)", field, strings.Join(checkableFields(), ", "))
	}

	order := []string{field}
	values := map[string]string{field: value}
	for k, v := range extra {
		if k == field || v == "" {
			continue
		}
		order = append(order, k)
		values[k] = v
	}

	rc := domain.NewRowContext(domain.RecordFromMap(order, values))
	result := fn(rc)
	return &checkReport{
		Field:     field,
		Result:    result,
		Steps:     rc.Steps(),
		Anomalies: rc.Anomalies(),
	}, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	extra := map[string]string{}
	if args[0] == domain.FieldFQDN {
		extra[domain.FieldHostname] = checkFlags.hostname
		extra[domain.FieldIP] = checkFlags.ip
	}

	report, err := checkValue(args[0], args[1], extra)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, r *checkReport) {
	for _, kv := range r.Result {
		fmt.Fprintf(out, "%-24s %s\n", kv[0]+":", kv[1])
	}
	if len(r.Steps) > 0 {
		fmt.Fprintf(out, "Steps:\n")
		for _, s := range r.Steps {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}
	if len(r.Anomalies) > 0 {
		fmt.Fprintf(out, "Anomalies:\n")
		for _, a := range r.Anomalies {
			if a.Value != "" {
				fmt.Fprintf(out, "  %s [%s] %q\n", a.Type, a.Field, a.Value)
			} else {
				fmt.Fprintf(out, "  %s [%s]\n", a.Type, a.Field)
			}
		}
	}
}
