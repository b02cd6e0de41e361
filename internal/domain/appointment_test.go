package domain_test

import (
	"errors"
	"testing"

	"github.com/barberbook/barberbook/internal/domain"
)

func TestAppointmentInput_Validate(t *testing.T) {
	valid := domain.AppointmentInput{
		ClientID: "c-1",
		Title:    "Fade",
		Date:     "2025-01-17",
		Time:     "09:30",
		Duration: 45,
		Price:    35,
	}

	t.Run("valid input defaults status", func(t *testing.T) {
		in := valid
		if err := in.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if in.Status != domain.AppointmentScheduled {
			t.Fatalf("expected default status scheduled, got %q", in.Status)
		}
	})

	tests := []struct {
		name   string
		mutate func(*domain.AppointmentInput)
		field  string
	}{
		{"missing client", func(in *domain.AppointmentInput) { in.ClientID = "" }, "clientId"},
		{"bad date", func(in *domain.AppointmentInput) { in.Date = "17/01/2025" }, "date"},
		{"impossible date", func(in *domain.AppointmentInput) { in.Date = "2025-02-30" }, "date"},
		{"bad time", func(in *domain.AppointmentInput) { in.Time = "25:00" }, "time"},
		{"zero duration", func(in *domain.AppointmentInput) { in.Duration = 0 }, "duration"},
		{"negative price", func(in *domain.AppointmentInput) { in.Price = -1 }, "price"},
		{"unknown status", func(in *domain.AppointmentInput) { in.Status = "no-show" }, "status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestClientInput_Validate(t *testing.T) {
	in := domain.ClientInput{Name: "  "}
	if err := in.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	in.Name = "Jane"
	if err := in.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestConfirmationRequest_Validate(t *testing.T) {
	valid := domain.ConfirmationRequest{ClientName: "Jane", Date: "2025-01-17", Time: "13:05"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, field := range []string{"clientName", "date", "time"} {
		t.Run("missing "+field, func(t *testing.T) {
			r := valid
			switch field {
			case "clientName":
				r.ClientName = ""
			case "date":
				r.Date = ""
			case "time":
				r.Time = ""
			}
			err := r.Validate()
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != field {
				t.Fatalf("expected missing %s, got %v", field, err)
			}
		})
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	if !errors.Is(&domain.UnsupportedCarrierError{Carrier: "fax"}, domain.ErrUnsupportedCarrier) {
		t.Fatal("UnsupportedCarrierError should match ErrUnsupportedCarrier")
	}
	cause := errors.New("dial tcp: timeout")
	te := &domain.TransportError{Part: 2, Err: cause}
	if !errors.Is(te, domain.ErrTransport) || !errors.Is(te, cause) {
		t.Fatal("TransportError should match ErrTransport and unwrap its cause")
	}
	if te.Error() != "send part 2: dial tcp: timeout" {
		t.Fatalf("unexpected message %q", te.Error())
	}
}
