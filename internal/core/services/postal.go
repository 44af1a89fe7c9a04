package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure PostalService implements the interface.
var _ driving.PostalService = (*PostalService)(nil)

const (
	postalBatchSize    = 1000
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	minSearchLength    = 3
)

// PostalService resolves Mexican postal codes to colonias.
type PostalService struct {
	codes driven.PostalCodeStore
}

// NewPostalService creates a new postal service.
func NewPostalService(codes driven.PostalCodeStore) *PostalService {
	return &PostalService{codes: codes}
}

// Lookup returns every colonia sharing a postal code.
func (s *PostalService) Lookup(ctx context.Context, code string) ([]domain.PostalCode, error) {
	if s.codes == nil {
		return nil, domain.ErrNotImplemented
	}
	code = strings.TrimSpace(code)
	if !domain.IsPostalCode(code) {
		return nil, domain.Invalid("code", "%q is not a five-digit postal code", code)
	}
	entries, err := s.codes.ListByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("postal code %s: %w", code, domain.ErrNotFound)
	}
	return entries, nil
}

// Search finds colonias whose name or municipality contains query.
func (s *PostalService) Search(ctx context.Context, query string, limit int) ([]domain.PostalCode, error) {
	if s.codes == nil {
		return nil, domain.ErrNotImplemented
	}
	key := fold(query)
	if utf8.RuneCountInString(key) < minSearchLength {
		return nil, domain.Invalid("query", "needs at least %d characters", minSearchLength)
	}
	switch {
	case limit <= 0:
		limit = defaultSearchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}
	return s.codes.Search(ctx, key, limit)
}

// Import loads the SEPOMEX catalog export. The file is pipe-delimited and
// usually Latin-1 encoded; the leading notice and header lines are skipped.
func (s *PostalService) Import(ctx context.Context, r io.Reader) (int, error) {
	if s.codes == nil {
		return 0, domain.ErrNotImplemented
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading catalog: %w", err)
	}
	if !utf8.Valid(raw) {
		raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return 0, fmt.Errorf("decoding catalog: %w", err)
		}
	}

	total := 0
	batch := make([]domain.PostalCode, 0, postalBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.codes.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("saving postal codes: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, line := range bytes.Split(raw, []byte("\n")) {
		entry, ok := ParseSepomexLine(string(line))
		if !ok {
			continue
		}
		batch = append(batch, entry)
		if len(batch) == postalBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	logger.Info("imported %d postal code entries", total)
	return total, nil
}

// ParseSepomexLine parses one catalog row:
// d_codigo|d_asenta|d_tipo_asenta|D_mnpio|d_estado|d_ciudad|...
// It reports false for notice, header and malformed lines.
func ParseSepomexLine(line string) (domain.PostalCode, bool) {
	fields := strings.Split(strings.TrimRight(line, "\r"), "|")
	if len(fields) < 6 {
		return domain.PostalCode{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if !domain.IsPostalCode(fields[0]) || fields[1] == "" {
		return domain.PostalCode{}, false
	}
	entry := domain.PostalCode{
		Code:           fields[0],
		Colonia:        fields[1],
		SettlementType: fields[2],
		Municipality:   fields[3],
		State:          fields[4],
		City:           fields[5],
	}
	entry.SearchKey = fold(entry.Colonia + " " + entry.Municipality)
	return entry, true
}
