package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies the SQL database behind a Store.
type Dialect string

// Supported dialects. The value doubles as the database/sql driver name
// and the migrations directory.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// rebind rewrites ? placeholders into the dialect's form.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// constraint classifies integrity violations reported by either driver.
type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
)

func classify(err error) constraint {
	var le *sqlite.Error
	if errors.As(err, &le) {
		switch le.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		}
		// Primary result code only; fall back to the message.
		if le.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			switch msg := le.Error(); {
			case strings.Contains(msg, "UNIQUE"):
				return constraintUnique
			case strings.Contains(msg, "FOREIGN KEY"):
				return constraintForeignKey
			}
		}
		return constraintNone
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505":
			return constraintUnique
		case "23503":
			return constraintForeignKey
		}
	}
	return constraintNone
}

// timeLayout is fixed-width so stored values order correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored time %q: %w", s, err)
	}
	return t, nil
}

// formatNullableTime returns nil for the zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime returns the zero time for NULL or empty values.
func parseNullableTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return parseTime(s.String)
}

// stamps parses the timestamp columns of one row and keeps the first
// failure, so a scanner can check once after all its columns.
type stamps struct {
	err error
}

func (p *stamps) keep(col string, t time.Time, err error) time.Time {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return t
}

func (p *stamps) at(col, s string) time.Time {
	t, err := parseTime(s)
	return p.keep(col, t, err)
}

func (p *stamps) nullable(col string, s sql.NullString) time.Time {
	t, err := parseNullableTime(s)
	return p.keep(col, t, err)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// encodeJSON stores composite values such as addresses in a text column.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
