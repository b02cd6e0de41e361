// Package carrier maps mobile carriers to their email-to-SMS gateway domains.
package carrier

import (
	"sort"
	"strings"

	"github.com/barberbook/barberbook/internal/domain"
)

// Entry is one carrier and the suffix appended to a phone number to reach
// its gateway, e.g. {"verizon", "@vtext.com"}.
type Entry struct {
	Key    string `json:"value"`
	Domain string `json:"domain"`
}

// Name is the display form of the key.
func (e Entry) Name() string { return strings.ToUpper(e.Key) }

var defaults = map[string]string{
	"att":        "@txt.att.net",
	"verizon":    "@vtext.com",
	"tmobile":    "@tmomail.net",
	"sprint":     "@messaging.sprintpcs.com",
	"boost":      "@myboostmobile.com",
	"cricket":    "@mms.cricketwireless.net",
	"metro":      "@mymetropcs.com",
	"uscellular": "@email.uscc.net",
	"virgin":     "@vmobl.com",
	"googlefi":   "@msg.fi.google.com",
}

// Directory is immutable after construction and safe for concurrent reads.
type Directory struct {
	domains map[string]string
}

// NewDirectory returns the built-in table with overrides applied on top.
// Override keys are lowercased; a domain missing its leading "@" gets one.
func NewDirectory(overrides map[string]string) *Directory {
	domains := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		domains[k] = v
	}
	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if !strings.HasPrefix(v, "@") {
			v = "@" + v
		}
		domains[k] = v
	}
	return &Directory{domains: domains}
}

// ResolveGatewayAddress strips every non-digit from phone and appends the
// carrier's gateway domain. Carrier lookup is case-insensitive. No check is
// made on digit count.
func (d *Directory) ResolveGatewayAddress(phone, carrier string) (string, error) {
	suffix, ok := d.Domain(carrier)
	if !ok {
		return "", &domain.UnsupportedCarrierError{Carrier: carrier}
	}
	return DigitsOnly(phone) + suffix, nil
}

// Domain returns the gateway suffix for carrier.
func (d *Directory) Domain(carrier string) (string, bool) {
	suffix, ok := d.domains[strings.ToLower(strings.TrimSpace(carrier))]
	return suffix, ok
}

// Keys lists the supported carrier keys in sorted order.
func (d *Directory) Keys() []string {
	keys := make([]string, 0, len(d.domains))
	for k := range d.domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries lists the table in key order.
func (d *Directory) Entries() []Entry {
	keys := d.Keys()
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Domain: d.domains[k]}
	}
	return entries
}

// DigitsOnly drops every character that is not 0-9.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
