package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// postalCodeStore implements driven.PostalCodeStore. The catalog is shared by all tenants.
type postalCodeStore struct {
	store *Store
}

var _ driven.PostalCodeStore = (*postalCodeStore)(nil)

const postalColumns = `code, colonia, settlement_type, municipality, state, city, search_key`

// likeEscaper escapes LIKE wildcards with a backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SaveBatch stores entries in one transaction, replacing any with the same code and colonia.
func (s *postalCodeStore) SaveBatch(ctx context.Context, entries []domain.PostalCode) error {
	if len(entries) == 0 {
		return nil
	}
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.store.dialect.rebind(`
			INSERT INTO postal_codes (`+postalColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(code, colonia) DO UPDATE SET
				settlement_type = excluded.settlement_type,
				municipality = excluded.municipality,
				state = excluded.state,
				city = excluded.city,
				search_key = excluded.search_key
		`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.Code, e.Colonia, e.SettlementType,
				e.Municipality, e.State, e.City, e.SearchKey); err != nil {
				return err
			}
		}
		return nil
	})
	return saveError("postal codes", err)
}

// ListByCode returns the colonias of a postal code ordered by name.
func (s *postalCodeStore) ListByCode(ctx context.Context, code string) ([]domain.PostalCode, error) {
	entries, err := queryAll(ctx, s.store, scanPostalCode,
		`SELECT `+postalColumns+` FROM postal_codes WHERE code = ? ORDER BY colonia`, code)
	if err != nil {
		return nil, fmt.Errorf("listing postal code %s: %w", code, err)
	}
	return entries, nil
}

// Search returns entries whose search key contains key, up to limit.
func (s *postalCodeStore) Search(ctx context.Context, key string, limit int) ([]domain.PostalCode, error) {
	query := `
		SELECT ` + postalColumns + ` FROM postal_codes
		WHERE search_key LIKE ? ESCAPE '\'
		ORDER BY code, colonia`
	args := []any{"%" + likeEscaper.Replace(key) + "%"}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	entries, err := queryAll(ctx, s.store, scanPostalCode, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching postal codes: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *postalCodeStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.queryRow(ctx, `SELECT COUNT(*) FROM postal_codes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting postal codes: %w", err)
	}
	return n, nil
}

func scanPostalCode(row scanner) (*domain.PostalCode, error) {
	var e domain.PostalCode
	if err := row.Scan(&e.Code, &e.Colonia, &e.SettlementType, &e.Municipality, &e.State,
		&e.City, &e.SearchKey); err != nil {
		return nil, fmt.Errorf("scanning postal code: %w", err)
	}
	return &e, nil
}
