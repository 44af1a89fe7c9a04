package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,39}$`)

// farFuture bounds open-ended range queries.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func newID() string {
	return uuid.New().String()
}

// fold lower-cases s and strips diacritics so "Peñón" matches "penon".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// upcoming returns the tenant's slot-blocking appointments that end after now.
func upcoming(ctx context.Context, appts driven.AppointmentStore, tenantID string, now time.Time) ([]domain.Appointment, error) {
	if appts == nil {
		return nil, nil
	}
	all, err := appts.ListRange(ctx, tenantID, now, farFuture)
	if err != nil {
		return nil, err
	}
	result := all[:0]
	for _, a := range all {
		if a.Status.BlocksSlot() && a.Status != domain.StatusCompleted {
			result = append(result, a)
		}
	}
	return result, nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid(field, "is required")
	}
	return nil
}
