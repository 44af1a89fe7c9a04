package httpapi

import (
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

const defaultPostalLimit = 20

func postalToJSON(p domain.PostalCode) postalCodeJSON { return postalCodeJSON(p) }

func (s *Server) lookupPostalCode(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Postal == nil {
		return notImplemented("postal codes")
	}
	entries, err := s.ports.Postal.Lookup(r.Context(), r.PathValue("code"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(entries, postalToJSON))
	return nil
}

func (s *Server) searchPostalCodes(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Postal == nil {
		return notImplemented("postal codes")
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		return domain.Invalid("q", "required")
	}
	limit, err := queryInt(r, "limit", defaultPostalLimit)
	if err != nil {
		return err
	}
	entries, err := s.ports.Postal.Search(r.Context(), q, limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(entries, postalToJSON))
	return nil
}
