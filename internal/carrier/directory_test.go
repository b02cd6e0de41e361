package carrier_test

import (
	"errors"
	"testing"

	"github.com/barberbook/barberbook/internal/carrier"
	"github.com/barberbook/barberbook/internal/domain"
)

func TestResolveGatewayAddress(t *testing.T) {
	d := carrier.NewDirectory(nil)

	tests := []struct {
		phone   string
		carrier string
		want    string
	}{
		{"8327080194", "verizon", "8327080194@vtext.com"},
		{"(832) 708-0194", "VERIZON", "8327080194@vtext.com"},
		{"+1 832.708.0194", "AtT", "18327080194@txt.att.net"},
		{"832-708-0194", "tmobile", "8327080194@tmomail.net"},
		{"8327080194", "sprint", "8327080194@messaging.sprintpcs.com"},
		{"8327080194", "boost", "8327080194@myboostmobile.com"},
		{"8327080194", "cricket", "8327080194@mms.cricketwireless.net"},
		{"8327080194", "metro", "8327080194@mymetropcs.com"},
		{"8327080194", "uscellular", "8327080194@email.uscc.net"},
		{"8327080194", "virgin", "8327080194@vmobl.com"},
		{"8327080194", "GoogleFi", "8327080194@msg.fi.google.com"},
	}

	for _, tc := range tests {
		t.Run(tc.carrier+"/"+tc.phone, func(t *testing.T) {
			got, err := d.ResolveGatewayAddress(tc.phone, tc.carrier)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveGatewayAddress_Unsupported(t *testing.T) {
	d := carrier.NewDirectory(nil)

	_, err := d.ResolveGatewayAddress("8327080194", "carrier-pigeon")
	if !errors.Is(err, domain.ErrUnsupportedCarrier) {
		t.Fatalf("expected ErrUnsupportedCarrier, got %v", err)
	}
	var uce *domain.UnsupportedCarrierError
	if !errors.As(err, &uce) || uce.Carrier != "carrier-pigeon" {
		t.Fatalf("expected UnsupportedCarrierError naming the carrier, got %v", err)
	}
}

func TestNewDirectory_Overrides(t *testing.T) {
	d := carrier.NewDirectory(map[string]string{
		"Ting": "message.ting.com",
		"att":  "@mms.att.net",
		"":     "@ignored.example",
	})

	got, err := d.ResolveGatewayAddress("555-0100", "ting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5550100@message.ting.com" {
		t.Fatalf("unexpected address %q", got)
	}

	got, _ = d.ResolveGatewayAddress("5550100", "att")
	if got != "5550100@mms.att.net" {
		t.Fatalf("expected override to replace att, got %q", got)
	}

	if len(d.Keys()) != 11 {
		t.Fatalf("expected 11 carriers, got %d: %v", len(d.Keys()), d.Keys())
	}
}

func TestEntries_Sorted(t *testing.T) {
	entries := carrier.NewDirectory(nil).Entries()
	if len(entries) < 10 {
		t.Fatalf("expected at least 10 carriers, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Fatalf("entries not sorted: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
	if entries[0].Key != "att" || entries[0].Name() != "ATT" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
}
