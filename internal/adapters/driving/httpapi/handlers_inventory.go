package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

func (s *Server) lowStock(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Inventory == nil {
		return notImplemented("inventory")
	}
	items, err := s.ports.Inventory.LowStock(r.Context(), tenant.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(items, func(v domain.InventoryItem) inventoryItemJSON {
		return inventoryItemJSON(v)
	}))
	return nil
}

func (s *Server) adjustInventory(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Inventory == nil {
		return notImplemented("inventory")
	}
	var body struct {
		SKU   string  `json:"sku"`
		Delta float64 `json:"delta"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	item, err := s.ports.Inventory.Adjust(r.Context(), tenant.ID, body.SKU, body.Delta)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, inventoryItemJSON(*item))
	return nil
}

// importInventory accepts the file either as a multipart "file" field or as
// the raw request body. Query parameters: parser (default csv), mode
// (default merge), dry_run and source.
func (s *Server) importInventory(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Inventory == nil {
		return notImplemented("inventory")
	}
	q := r.URL.Query()

	req := driving.ImportRequest{
		TenantID: tenant.ID,
		Parser:   q.Get("parser"),
		Source:   q.Get("source"),
		Mode:     domain.ImportMode(q.Get("mode")),
	}
	if req.Parser == "" {
		req.Parser = "csv"
	}
	if req.Mode == "" {
		req.Mode = domain.ImportMerge
	}
	dryRun, err := queryBool(r, "dry_run")
	if err != nil {
		return err
	}
	req.DryRun = dryRun

	blob, name, err := readUpload(r)
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		return domain.Invalid("file", "empty upload")
	}
	req.Blob = blob
	if req.Source == "" {
		req.Source = name
	}
	if req.Source == "" {
		req.Source = "upload"
	}

	report, err := s.ports.Inventory.Import(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, importReportFromDomain(*report))
	return nil
}

// readUpload returns the uploaded bytes and the client-supplied file name, if any.
func readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		blob, err := io.ReadAll(r.Body)
		return blob, "", err
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", badRequest("invalid multipart body: " + err.Error())
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", domain.Invalid("file", "missing multipart field \"file\"")
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, "", err
			}
			return nil, "", badRequest("invalid multipart body: " + err.Error())
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		blob, err := io.ReadAll(part)
		part.Close()
		return blob, part.FileName(), err
	}
}
