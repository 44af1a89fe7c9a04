package httpapi

import (
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	var (
		routes []domain.DeliveryRoute
		err    error
	)
	if v := r.URL.Query().Get("weekday"); v != "" {
		day, ok := parseWeekday(v)
		if !ok {
			return domain.Invalid("weekday", "unknown weekday %q", v)
		}
		routes, err = s.ports.Routes.ForDay(r.Context(), tenant.ID, day)
	} else {
		routes, err = s.ports.Routes.List(r.Context(), tenant.ID)
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(routes, routeFromDomain))
	return nil
}

func (s *Server) createRoute(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	var body routeJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	route, err := body.toDomain()
	if err != nil {
		return err
	}
	route.ID = ""
	route.TenantID = tenant.ID
	created, err := s.ports.Routes.Create(r.Context(), route)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, routeFromDomain(*created))
	return nil
}

func (s *Server) getRoute(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	route, err := s.ports.Routes.Get(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, routeFromDomain(*route))
	return nil
}

func (s *Server) updateRoute(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	var body routeJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	route, err := body.toDomain()
	if err != nil {
		return err
	}
	route.ID = r.PathValue("id")
	route.TenantID = tenant.ID
	if err := s.ports.Routes.Update(r.Context(), route); err != nil {
		return err
	}
	return s.getRoute(w, r, tenant)
}

func (s *Server) deleteRoute(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	if err := s.ports.Routes.Delete(r.Context(), tenant.ID, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) reorderRoute(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Routes == nil {
		return notImplemented("routes")
	}
	var body struct {
		ClientIDs []string `json:"client_ids"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	route, err := s.ports.Routes.Reorder(r.Context(), tenant.ID, r.PathValue("id"), body.ClientIDs)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, routeFromDomain(*route))
	return nil
}
