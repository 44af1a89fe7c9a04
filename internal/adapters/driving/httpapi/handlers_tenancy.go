package httpapi

import (
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Companies == nil {
		return notImplemented("companies")
	}
	companies, err := s.ports.Companies.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(companies, func(c domain.Company) companyJSON { return companyJSON(c) }))
	return nil
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Companies == nil {
		return notImplemented("companies")
	}
	var body companyJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	created, err := s.ports.Companies.Create(r.Context(), domain.Company(body))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, companyJSON(*created))
	return nil
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Companies == nil {
		return notImplemented("companies")
	}
	company, err := s.ports.Companies.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, companyJSON(*company))
	return nil
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Companies == nil {
		return notImplemented("companies")
	}
	var body companyJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	body.ID = r.PathValue("id")
	if err := s.ports.Companies.Update(r.Context(), domain.Company(body)); err != nil {
		return err
	}
	return s.getCompany(w, r)
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) error {
	if s.ports.Companies == nil {
		return notImplemented("companies")
	}
	if err := s.ports.Companies.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) listTenants(w http.ResponseWriter, r *http.Request) error {
	tenants, err := s.ports.Tenants.List(r.Context())
	if err != nil {
		return err
	}
	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		filtered := tenants[:0]
		for _, t := range tenants {
			if t.CompanyID == companyID {
				filtered = append(filtered, t)
			}
		}
		tenants = filtered
	}
	writeJSON(w, http.StatusOK, mapSlice(tenants, tenantFromDomain))
	return nil
}

func (s *Server) createTenant(w http.ResponseWriter, r *http.Request) error {
	var body tenantJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	tenant, err := body.toDomain()
	if err != nil {
		return err
	}
	created, err := s.ports.Tenants.Create(r.Context(), tenant)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, tenantFromDomain(*created))
	return nil
}

func (s *Server) getTenant(w http.ResponseWriter, _ *http.Request, tenant *domain.Tenant) error {
	writeJSON(w, http.StatusOK, tenantFromDomain(*tenant))
	return nil
}

func (s *Server) updateTenant(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	var body tenantJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	updated, err := body.toDomain()
	if err != nil {
		return err
	}
	updated.ID = tenant.ID
	if updated.CompanyID == "" {
		updated.CompanyID = tenant.CompanyID
	}
	if err := s.ports.Tenants.Update(r.Context(), updated); err != nil {
		return err
	}
	saved, err := s.ports.Tenants.Get(r.Context(), tenant.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, tenantFromDomain(*saved))
	return nil
}

func (s *Server) deleteTenant(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := s.ports.Tenants.Delete(r.Context(), tenant.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
