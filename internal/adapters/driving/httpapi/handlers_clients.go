package httpapi

import (
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func petToJSON(p domain.Pet) petJSON { return petJSON(p) }

func (s *Server) listClients(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("clients")
	}
	var (
		clients []domain.Client
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		clients, err = s.ports.Clients.Search(r.Context(), tenant.ID, q)
	} else {
		clients, err = s.ports.Clients.List(r.Context(), tenant.ID)
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(clients, clientFromDomain))
	return nil
}

// createClient stores a client, and its pets too when the body lists any.
func (s *Server) createClient(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("clients")
	}
	var body clientJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	client := body.toDomain()
	client.TenantID = tenant.ID

	if len(body.Pets) == 0 {
		created, err := s.ports.Clients.Create(r.Context(), client)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, clientFromDomain(*created))
		return nil
	}

	pets := make([]domain.Pet, 0, len(body.Pets))
	for _, p := range body.Pets {
		pet := domain.Pet(p)
		pet.TenantID = tenant.ID
		pets = append(pets, pet)
	}
	created, savedPets, err := s.ports.Clients.Intake(r.Context(), client, pets)
	if err != nil {
		return err
	}
	out := clientFromDomain(*created)
	out.Pets = mapSlice(savedPets, petToJSON)
	writeJSON(w, http.StatusCreated, out)
	return nil
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("clients")
	}
	client, err := s.ports.Clients.Get(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	out := clientFromDomain(*client)
	pets, err := s.ports.Clients.ListPets(r.Context(), tenant.ID, client.ID)
	if err != nil {
		return err
	}
	out.Pets = mapSlice(pets, petToJSON)
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("clients")
	}
	var body clientJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	client := body.toDomain()
	client.ID = r.PathValue("id")
	client.TenantID = tenant.ID
	if err := s.ports.Clients.Update(r.Context(), client); err != nil {
		return err
	}
	return s.getClient(w, r, tenant)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("clients")
	}
	if err := s.ports.Clients.Delete(r.Context(), tenant.ID, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) listClientPets(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("pets")
	}
	pets, err := s.ports.Clients.ListPets(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(pets, petToJSON))
	return nil
}

func (s *Server) addPet(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("pets")
	}
	var body petJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	pet := domain.Pet(body)
	pet.TenantID = tenant.ID
	pet.ClientID = r.PathValue("id")
	created, err := s.ports.Clients.AddPet(r.Context(), pet)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, petJSON(*created))
	return nil
}

func (s *Server) getPet(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("pets")
	}
	pet, err := s.ports.Clients.GetPet(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, petJSON(*pet))
	return nil
}

func (s *Server) updatePet(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("pets")
	}
	var body petJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	pet := domain.Pet(body)
	pet.ID = r.PathValue("id")
	pet.TenantID = tenant.ID
	if pet.ClientID == "" {
		existing, err := s.ports.Clients.GetPet(r.Context(), tenant.ID, pet.ID)
		if err != nil {
			return err
		}
		pet.ClientID = existing.ClientID
	}
	if err := s.ports.Clients.UpdatePet(r.Context(), pet); err != nil {
		return err
	}
	return s.getPet(w, r, tenant)
}

func (s *Server) deletePet(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Clients == nil {
		return notImplemented("pets")
	}
	if err := s.ports.Clients.DeletePet(r.Context(), tenant.ID, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
