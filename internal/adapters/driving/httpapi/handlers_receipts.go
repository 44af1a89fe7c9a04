package httpapi

import (
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// templateID maps the path value "default" to the tenant's default template.
func templateID(r *http.Request) string {
	id := r.PathValue("id")
	if id == "default" {
		return ""
	}
	return id
}

func (s *Server) setDefaultReceiptTemplate(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Receipts == nil {
		return notImplemented("receipt templates")
	}
	id := r.PathValue("id")
	if err := s.ports.Receipts.SetDefault(r.Context(), tenant.ID, id); err != nil {
		return err
	}
	tmpl, err := s.ports.Receipts.Get(r.Context(), tenant.ID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, receiptTemplateJSON(*tmpl))
	return nil
}

func (s *Server) renderReceipt(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Receipts == nil {
		return notImplemented("receipt templates")
	}
	var body receiptJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	html, err := s.ports.Receipts.Render(r.Context(), tenant.ID, templateID(r), body.toDomain())
	if err != nil {
		return err
	}
	writeHTML(w, html)
	return nil
}

func (s *Server) previewReceipt(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Receipts == nil {
		return notImplemented("receipt templates")
	}
	html, err := s.ports.Receipts.Preview(r.Context(), tenant.ID, templateID(r))
	if err != nil {
		return err
	}
	writeHTML(w, html)
	return nil
}
