package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"invclean/internal/domain"

	"gopkg.in/yaml.v3"
)

// UngroupedHosts is the inventory group for hosts without an accepted device type
const UngroupedHosts = "ungrouped"

// AnsibleCodec handles Ansible inventory import/export
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-inventory"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children,omitempty"`
	Hosts    map[string]ansibleHost     `yaml:"hosts,omitempty"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts,omitempty"`
}

type ansibleHost struct {
	AnsibleHost string         `yaml:"ansible_host,omitempty"`
	Vars        map[string]any `yaml:",inline"`
}

// inventoryHost is one host entry flattened out of its group
type inventoryHost struct {
	id    string
	group string
	host  ansibleHost
}

// AnsibleGroupField is the pass-through column holding a host's inventory group
const AnsibleGroupField = "ansible_group"

// Read imports hosts from an Ansible inventory as raw records. The host name
// becomes the hostname field and ansible_host the ip field; host vars named
// after input fields fill those fields and any other vars are passed through.
// Hosts are ordered by group then host name; a host listed in several groups
// is kept once.
func (c *AnsibleCodec) Read(r io.Reader) (*Table, error) {
	var inv ansibleInventory
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&inv); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse Ansible inventory: %w", err)
	}

	var hosts []inventoryHost
	seen := make(map[string]bool)
	add := func(group string, members map[string]ansibleHost) {
		for _, id := range sortedKeys(members) {
			if seen[id] {
				continue
			}
			seen[id] = true
			hosts = append(hosts, inventoryHost{id: id, group: group, host: members[id]})
		}
	}
	for _, group := range sortedKeys(inv.All.Children) {
		add(group, inv.All.Children[group].Hosts)
	}
	add("all", inv.All.Hosts)

	header := []string{
		domain.FieldIP, domain.FieldMAC, domain.FieldHostname, domain.FieldFQDN,
		domain.FieldOwner, domain.FieldDeviceType, domain.FieldSite,
		domain.FieldNotes, domain.FieldSourceRowID,
	}
	core := make(map[string]bool, len(header))
	for _, h := range header {
		core[h] = true
	}
	extraSet := make(map[string]bool)
	for _, h := range hosts {
		for key := range h.host.Vars {
			if !core[key] {
				extraSet[key] = true
			}
		}
	}
	header = append(header, AnsibleGroupField)
	header = append(header, sortedKeys(extraSet)...)

	table := &Table{Header: header}
	for i, h := range hosts {
		values := map[string]string{
			domain.FieldHostname:    h.id,
			domain.FieldSourceRowID: strconv.Itoa(i + 1),
			AnsibleGroupField:       h.group,
		}
		// a host without ansible_host has no address at all
		if h.host.AnsibleHost != "" {
			values[domain.FieldIP] = h.host.AnsibleHost
		}
		for key, value := range h.host.Vars {
			if value == nil {
				continue
			}
			values[key] = fmt.Sprint(value)
		}
		table.Records = append(table.Records, domain.RecordFromMap(header, values))
	}

	return table, nil
}

// Write exports cleaned records as an Ansible inventory grouped by device
// type. Only records with a valid address and hostname are exported; the
// first record wins when a hostname repeats.
func (c *AnsibleCodec) Write(header []string, records []domain.NormalizedRecord, w io.Writer) error {
	inv := ansibleInventory{
		All: ansibleGroup{
			Children: make(map[string]ansibleGroupDef),
		},
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Get(domain.FieldIPValid) != "true" || rec.Get(domain.FieldHostnameValid) != "true" {
			continue
		}
		name := rec.Get(domain.FieldHostname)
		if seen[name] {
			continue
		}
		seen[name] = true

		group := inventoryGroup(rec)
		def, ok := inv.All.Children[group]
		if !ok {
			def = ansibleGroupDef{Hosts: make(map[string]ansibleHost)}
			inv.All.Children[group] = def
		}

		host := ansibleHost{
			AnsibleHost: rec.Get(domain.FieldIP),
			Vars:        make(map[string]any),
		}
		if rec.Get(domain.FieldMACValid) == "true" {
			host.Vars["mac"] = rec.Get(domain.FieldMAC)
		}
		if rec.Get(domain.FieldFQDNConsistent) == "true" {
			host.Vars["fqdn"] = rec.Get(domain.FieldFQDN)
		}
		for _, field := range []string{
			domain.FieldSubnetCIDR,
			domain.FieldOwner, domain.FieldOwnerEmail, domain.FieldOwnerTeam,
			domain.FieldSiteNormalized, domain.FieldSourceRowID,
		} {
			if v := rec.Get(field); v != "" {
				host.Vars[field] = v
			}
		}

		def.Hosts[name] = host
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}

	return nil
}

// inventoryGroup picks the group for a cleaned record: its device type when
// the classifier accepted it, otherwise UngroupedHosts
func inventoryGroup(rec domain.NormalizedRecord) string {
	confidence := domain.Confidence(rec.Get(domain.FieldDeviceTypeConfidence))
	deviceType := domain.DeviceType(rec.Get(domain.FieldDeviceType))
	if !confidence.Accepted() || !deviceType.IsCanonical() || deviceType == domain.DeviceTypeUnknown {
		return UngroupedHosts
	}
	return string(deviceType)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
