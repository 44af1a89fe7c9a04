// Package csv parses spreadsheet exports into inventory rows.
//
// Headers may be in English or Spanish and the delimiter is detected from
// the header line. Files that are not valid UTF-8 are read as Windows-1252,
// which is what Excel on Spanish-locale Windows produces.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Name is the registry name of this parser.
const Name = "csv"

// Ensure Parser implements the interface.
var _ driven.InventoryParser = (*Parser)(nil)

type column int

const (
	colSKU column = iota
	colName
	colQuantity
	colUnit
	colCost
	colPrice
	colCategory
	colMin
	colSupplier
	colLot
	colExpiry
)

var columnNames = map[column]string{
	colSKU: "sku", colName: "name", colQuantity: "quantity", colUnit: "unit",
	colCost: "cost", colPrice: "price", colCategory: "category", colMin: "min_stock",
	colSupplier: "supplier", colLot: "lot", colExpiry: "expires_at",
}

// aliases maps folded header text to a column.
var aliases = map[string]column{
	"sku": colSKU, "codigo": colSKU, "clave": colSKU, "code": colSKU, "id": colSKU,
	"name": colName, "nombre": colName, "producto": colName, "descripcion": colName,
	"description": colName, "articulo": colName, "item": colName,
	"quantity": colQuantity, "qty": colQuantity, "cantidad": colQuantity,
	"existencia": colQuantity, "existencias": colQuantity, "stock": colQuantity,
	"unit": colUnit, "unidad": colUnit, "uom": colUnit,
	"cost": colCost, "costo": colCost, "unit cost": colCost, "costo unitario": colCost,
	"price": colPrice, "precio": colPrice, "precio venta": colPrice, "precio de venta": colPrice,
	"category": colCategory, "categoria": colCategory, "familia": colCategory,
	"min": colMin, "minimo": colMin, "min stock": colMin, "stock minimo": colMin, "reorder": colMin,
	"supplier": colSupplier, "proveedor": colSupplier, "vendor": colSupplier,
	"lot": colLot, "lote": colLot, "batch": colLot,
	"expiry": colExpiry, "expires": colExpiry, "caducidad": colExpiry,
	"vencimiento": colExpiry, "expiration": colExpiry, "fecha de caducidad": colExpiry,
}

var delimiters = []rune{',', ';', '\t', '|'}

// Parser reads delimited text with a header row.
type Parser struct{}

// New creates a CSV parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return Name
}

// Parse reads blob into rows. The blob-level error is reserved for input
// that has no usable header; bad cells become row errors.
func (p *Parser) Parse(ctx context.Context, name string, blob []byte) ([]domain.ImportRow, []domain.RowError, error) {
	text, err := decode(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%s: empty file: %w", name, domain.ErrInvalidInput)
	}

	r := stdcsv.NewReader(strings.NewReader(text))
	r.Comma = detectDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: reading header: %w", name, domain.ErrInvalidInput)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	var rows []domain.ImportRow
	var rowErrs []domain.RowError
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := r.FieldPos(0)
		if err != nil {
			var perr *stdcsv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			rowErrs = append(rowErrs, domain.RowError{Line: line, Message: err.Error()})
			continue
		}
		if blank(record) {
			continue
		}
		row, rerr := parseRecord(line, record, cols)
		if rerr != nil {
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// decode strips a UTF-8 BOM and converts Windows-1252 input to UTF-8.
func decode(blob []byte) (string, error) {
	blob = bytes.TrimPrefix(blob, []byte("\xef\xbb\xbf"))
	if utf8.Valid(blob) {
		return string(blob), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(blob)
	if err != nil {
		return "", fmt.Errorf("decoding input: %w", domain.ErrInvalidInput)
	}
	return string(out), nil
}

// detectDelimiter picks the candidate that occurs most often, outside
// quotes, on the first line.
func detectDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	counts := make(map[rune]int, len(delimiters))
	quoted := false
	for _, c := range first {
		if c == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[c]++
		}
	}
	best := ','
	for _, d := range delimiters {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func mapHeader(header []string) (map[column]int, error) {
	cols := make(map[column]int)
	for i, h := range header {
		c, ok := aliases[fold(h)]
		if !ok {
			continue
		}
		if _, dup := cols[c]; !dup {
			cols[c] = i
		}
	}
	if _, ok := cols[colName]; !ok {
		if _, ok := cols[colSKU]; !ok {
			return nil, fmt.Errorf("header has no name or sku column: %w", domain.ErrInvalidInput)
		}
	}
	return cols, nil
}

func parseRecord(line int, record []string, cols map[column]int) (domain.ImportRow, *domain.RowError) {
	cell := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	fail := func(c column, format string, args ...any) *domain.RowError {
		return &domain.RowError{Line: line, Field: columnNames[c], Message: fmt.Sprintf(format, args...)}
	}

	row := domain.ImportRow{
		Line: line,
		Item: domain.InventoryItem{
			SKU:      cell(colSKU),
			Name:     cell(colName),
			Unit:     cell(colUnit),
			Category: cell(colCategory),
			Supplier: cell(colSupplier),
			Lot:      cell(colLot),
		},
	}

	if v := cell(colQuantity); v != "" {
		q, err := ParseQuantity(v)
		if err != nil {
			return row, fail(colQuantity, "invalid quantity %q", v)
		}
		row.Item.Quantity = q
		row.HasQuantity = true
	}
	if v := cell(colMin); v != "" {
		q, err := ParseQuantity(v)
		if err != nil {
			return row, fail(colMin, "invalid minimum %q", v)
		}
		row.Item.MinStock = q
	}
	for _, money := range []struct {
		col column
		dst *int64
	}{{colCost, &row.Item.CostCents}, {colPrice, &row.Item.PriceCents}} {
		v := cell(money.col)
		if v == "" {
			continue
		}
		cents, err := ParseMoney(v)
		if err != nil {
			return row, fail(money.col, "invalid amount %q", v)
		}
		*money.dst = cents
	}
	if v := cell(colExpiry); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return row, fail(colExpiry, "invalid date %q", v)
		}
		row.Item.ExpiresAt = d
	}
	return row, nil
}

// ParseMoney converts an amount such as "$1,234.50", "1234,5" or
// "1.234,50 MXN" to cents. The last separator followed by one or two
// digits is the decimal point; other separators group thousands. Only
// digits are accepted around them, and amounts beyond int64 cents fail.
func ParseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "MXN"), "mxn")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "-$ ")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount: %w", domain.ErrInvalidInput)
	}
	bad := fmt.Errorf("amount %q: %w", s, domain.ErrInvalidInput)

	whole, frac := s, ""
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 <= 2 && len(s)-i-1 > 0 {
		whole, frac = s[:i], s[i+1:]
	}
	whole = strings.NewReplacer(",", "", ".", "").Replace(whole)
	if whole == "" {
		whole = "0"
	}
	if !digits(whole) || !digits(frac) {
		return 0, bad
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, bad
	}
	var cents int64
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, bad
	}
	cents += units * 100
	if neg {
		cents = -cents
	}
	return cents, nil
}

// MoneyFromFloat converts an amount already held as a number to cents,
// rounding half away from zero.
func MoneyFromFloat(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v)*100 >= math.MaxInt64 {
		return 0, fmt.Errorf("amount %v: %w", v, domain.ErrInvalidInput)
	}
	return int64(math.Round(v * 100)), nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseQuantity parses a decimal quantity, accepting a comma as the
// decimal separator.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("quantity %q: %w", s, domain.ErrInvalidInput)
	}
	return v, nil
}

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY and MM/YYYY. A month-only date
// means the last day of that month.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"01/2006", "1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.AddDate(0, 1, -1), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", s, domain.ErrInvalidInput)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// fold lower-cases s, drops accents and collapses separators to spaces.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == '.' {
			return ' '
		}
		return unicode.ToLower(r)
	}, out)
	return strings.Join(strings.Fields(out), " ")
}
