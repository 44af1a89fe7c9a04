// Package ai extracts inventory rows from free text with an LLM.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/logger"
	"github.com/custodia-labs/vetdesk/internal/parsers/csv"
)

// Name is the registry name of this parser.
const Name = "ai"

// Ensure Parser implements the interfaces.
var (
	_ driven.InventoryParser  = (*Parser)(nil)
	_ driven.PromptStoreAware = (*Parser)(nil)
)

// Built-in prompts, used when no prompt store is set or it has no override.
const (
	DefaultSystemPrompt = `You convert veterinary clinic stock descriptions into JSON.
Reply with a JSON array only. Each element has the keys sku, name, quantity, unit,
cost, price, category, min_stock, supplier, lot and expires_at. Money is in Mexican
pesos. Dates are YYYY-MM-DD. Use null for anything the text does not state.`

	DefaultExtractPrompt = "Extract every product from this text:\n\n%s"
)

// Parser sends free text to an LLM and reads back a JSON array of items.
type Parser struct {
	llm       driven.LLMService
	prompts   driven.PromptStore
	chunkSize int
}

// Option configures the parser.
type Option func(*Parser)

// WithChunkSize sets the maximum characters sent per LLM request.
func WithChunkSize(size int) Option {
	return func(p *Parser) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates an AI parser. llm may be nil.
func New(llm driven.LLMService, opts ...Option) *Parser {
	p := &Parser{llm: llm, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return Name
}

// SetPromptStore sets the store used for the extraction prompts.
func (p *Parser) SetPromptStore(store driven.PromptStore) {
	p.prompts = store
}

// Parse extracts rows from blob. Row lines number items in the order the
// model returned them, starting at 1.
func (p *Parser) Parse(ctx context.Context, name string, blob []byte) ([]domain.ImportRow, []domain.RowError, error) {
	if p.llm == nil {
		return nil, nil, domain.ErrLLMUnavailable
	}
	pieces := chunk(string(bytes.TrimPrefix(blob, []byte("\xef\xbb\xbf"))), p.chunkSize)
	if len(pieces) == 0 {
		return nil, nil, fmt.Errorf("%s: empty input: %w", name, domain.ErrInvalidInput)
	}

	if p.prompts != nil {
		p.prompts.Reload()
	}
	system := p.prompt(driven.PromptInventorySystem, DefaultSystemPrompt)
	extract := p.prompt(driven.PromptInventoryExtract, DefaultExtractPrompt)

	var rows []domain.ImportRow
	var rowErrs []domain.RowError
	line := 0
	for i, piece := range pieces {
		reply, err := p.llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: fmt.Sprintf(extract, piece)},
		}, driven.ChatOptions{Temperature: 0})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: chunk %d of %d: %w", name, i+1, len(pieces), err)
		}
		items, err := decodeItems(reply)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: chunk %d of %d: %w", name, i+1, len(pieces), err)
		}
		logger.Debug("ai parser: %s returned %d items for chunk %d/%d", p.llm.ModelName(), len(items), i+1, len(pieces))
		for _, it := range items {
			line++
			row, rerr := it.toRow(line)
			if rerr != nil {
				rowErrs = append(rowErrs, *rerr)
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows, rowErrs, nil
}

func (p *Parser) prompt(name, fallback string) string {
	if p.prompts == nil {
		return fallback
	}
	text, err := p.prompts.Load(name)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Debug("ai parser: using built-in %s prompt: %v", name, err)
		return fallback
	}
	return text
}

// item is one element of the model's reply. Numbers may arrive as JSON
// numbers or as strings such as "$85.50".
type item struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  *flex   `json:"quantity"`
	Unit      string  `json:"unit"`
	Cost      *flex   `json:"cost"`
	Price     *flex   `json:"price"`
	Category  string  `json:"category"`
	MinStock  *flex   `json:"min_stock"`
	Supplier  string  `json:"supplier"`
	Lot       string  `json:"lot"`
	ExpiresAt *string `json:"expires_at"`
}

// flex keeps a JSON string or a bare JSON number as text. Bare numbers
// have no thousands separators, so money skips the separator rules for them.
type flex struct {
	text   string
	number bool
}

func (f *flex) UnmarshalJSON(b []byte) error {
	if s, err := strconv.Unquote(string(b)); err == nil {
		f.text = s
		return nil
	}
	f.text, f.number = string(b), true
	return nil
}

func (f *flex) empty() bool { return f == nil || f.text == "" }

func (f *flex) cents() (int64, error) {
	if !f.number {
		return csv.ParseMoney(f.text)
	}
	v, err := strconv.ParseFloat(f.text, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %s: %w", f.text, domain.ErrInvalidInput)
	}
	return csv.MoneyFromFloat(v)
}

func (it item) toRow(line int) (domain.ImportRow, *domain.RowError) {
	fail := func(field, format string, args ...any) *domain.RowError {
		return &domain.RowError{Line: line, Field: field, Message: fmt.Sprintf(format, args...)}
	}
	row := domain.ImportRow{
		Line: line,
		Item: domain.InventoryItem{
			SKU: it.SKU, Name: it.Name, Unit: it.Unit, Category: it.Category,
			Supplier: it.Supplier, Lot: it.Lot,
		},
	}
	if !it.Quantity.empty() {
		q, err := csv.ParseQuantity(it.Quantity.text)
		if err != nil {
			return row, fail("quantity", "invalid quantity %q", it.Quantity.text)
		}
		row.Item.Quantity = q
		row.HasQuantity = true
	}
	if !it.MinStock.empty() {
		q, err := csv.ParseQuantity(it.MinStock.text)
		if err != nil {
			return row, fail("min_stock", "invalid minimum %q", it.MinStock.text)
		}
		row.Item.MinStock = q
	}
	for _, m := range []struct {
		field string
		v     *flex
		dst   *int64
	}{{"cost", it.Cost, &row.Item.CostCents}, {"price", it.Price, &row.Item.PriceCents}} {
		if m.v.empty() {
			continue
		}
		cents, err := m.v.cents()
		if err != nil {
			return row, fail(m.field, "invalid amount %q", m.v.text)
		}
		*m.dst = cents
	}
	if it.ExpiresAt != nil && *it.ExpiresAt != "" {
		d, err := csv.ParseDate(*it.ExpiresAt)
		if err != nil {
			return row, fail("expires_at", "invalid date %q", *it.ExpiresAt)
		}
		row.Item.ExpiresAt = d.In(time.UTC)
	}
	return row, nil
}

// decodeItems reads the JSON array out of a reply, tolerating code
// fences and prose around it.
func decodeItems(reply string) ([]item, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("model reply has no JSON array: %w", domain.ErrInvalidInput)
	}
	var items []item
	if err := json.Unmarshal([]byte(reply[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decoding model reply: %v: %w", err, domain.ErrInvalidInput)
	}
	return items, nil
}
