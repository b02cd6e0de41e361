// Package message renders notification text and splits it into SMS-sized chunks.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/barberbook/barberbook/internal/domain"
)

// NoAppointments is the whole digest body on a free day.
const NoAppointments = "You have no appointments today. Enjoy your free day!"

// FormatTime renders an HH:MM 24h clock time as "h:mm AM|PM".
func FormatTime(time24h string) (string, error) {
	t, err := time.Parse(domain.TimeLayout, strings.TrimSpace(time24h))
	if err != nil {
		return "", &domain.ValidationError{Field: "time", Reason: "must be formatted HH:MM (24h)"}
	}
	return t.Format("3:04 PM"), nil
}

// FormatDate renders a yyyy-mm-dd date as "Weekday Month D, YYYY".
func FormatDate(isoDate string) (string, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(isoDate))
	if err != nil {
		return "", &domain.ValidationError{Field: "date", Reason: "must be formatted yyyy-mm-dd"}
	}
	return t.Format("Monday January 2, 2006"), nil
}

// AppointmentConfirmation builds the new-appointment message.
func AppointmentConfirmation(clientName, isoDate, time24h string) (string, error) {
	date, err := FormatDate(isoDate)
	if err != nil {
		return "", err
	}
	clock, err := FormatTime(time24h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Client: %s\n\nDate: %s\n\nTime: %s", clientName, date, clock), nil
}

// DailyDigest builds the morning summary. Entries are numbered from 1 in the
// order given.
func DailyDigest(count int, entries []domain.DigestEntry) (string, error) {
	if count == 0 {
		return NoAppointments, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s today.", count, plural(count, "appointment"))

	if len(entries) > 0 {
		b.WriteString("\n\nToday:\n")
		for i, e := range entries {
			clock, err := FormatTime(e.Time)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%d. %s %s\n", i+1, e.ClientName, clock)
		}
	}
	return b.String(), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
