package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure ClientService implements the interface.
var _ driving.ClientService = (*ClientService)(nil)

// ClientService manages client and pet intake.
type ClientService struct {
	clients driven.ClientStore
	pets    driven.PetStore
	appts   driven.AppointmentStore
	now     func() time.Time
}

// NewClientService creates a new client service.
func NewClientService(clients driven.ClientStore, pets driven.PetStore, appts driven.AppointmentStore) *ClientService {
	return &ClientService{clients: clients, pets: pets, appts: appts, now: time.Now}
}

// Create validates and stores a client.
func (s *ClientService) Create(ctx context.Context, client domain.Client) (*domain.Client, error) {
	if s.clients == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := required("tenant_id", client.TenantID); err != nil {
		return nil, err
	}
	if err := normaliseClient(&client); err != nil {
		return nil, err
	}
	if client.ID == "" {
		client.ID = newID()
	} else if _, err := s.clients.Get(ctx, client.TenantID, client.ID); err == nil {
		return nil, domain.ErrAlreadyExists
	}
	client.CreatedAt = s.now().UTC()
	client.UpdatedAt = client.CreatedAt
	if err := s.clients.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("saving client: %w", err)
	}
	return &client, nil
}

// Get retrieves a client.
func (s *ClientService) Get(ctx context.Context, tenantID, id string) (*domain.Client, error) {
	if s.clients == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.clients.Get(ctx, tenantID, id)
}

// List returns a tenant's clients.
func (s *ClientService) List(ctx context.Context, tenantID string) ([]domain.Client, error) {
	if s.clients == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.clients.List(ctx, tenantID)
}

// Search matches clients by name, phone or email ignoring case and accents.
// A query made only of digits matches phone numbers.
func (s *ClientService) Search(ctx context.Context, tenantID, query string) ([]domain.Client, error) {
	if s.clients == nil {
		return nil, domain.ErrNotImplemented
	}
	all, err := s.clients.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q := fold(query)
	if q == "" {
		return all, nil
	}
	digits := onlyDigits(query)
	phoneQuery := digits != "" && strings.Trim(query, "0123456789 +-().") == ""
	var matches []domain.Client
	for i := range all {
		c := &all[i]
		switch {
		case phoneQuery:
			if strings.Contains(c.Phone, digits) {
				matches = append(matches, *c)
			}
		case strings.Contains(fold(c.FullName()), q), strings.Contains(c.Email, q):
			matches = append(matches, *c)
		}
	}
	return matches, nil
}

// Update modifies a client.
func (s *ClientService) Update(ctx context.Context, client domain.Client) error {
	if s.clients == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.clients.Get(ctx, client.TenantID, client.ID)
	if err != nil {
		return err
	}
	if err := normaliseClient(&client); err != nil {
		return err
	}
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = s.now().UTC()
	return s.clients.Save(ctx, client)
}

// Delete removes a client and its pets unless the client has upcoming appointments.
func (s *ClientService) Delete(ctx context.Context, tenantID, id string) error {
	if s.clients == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.clients.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if s.appts != nil {
		appts, err := s.appts.ListByClient(ctx, tenantID, id)
		if err != nil {
			return err
		}
		now := s.now()
		for i := range appts {
			if appts[i].Status.BlocksSlot() && appts[i].End.After(now) && !appts[i].Status.IsTerminal() {
				return fmt.Errorf("client has upcoming appointment %s: %w", appts[i].ID, domain.ErrInUse)
			}
		}
	}
	return s.clients.Delete(ctx, tenantID, id)
}

// Intake creates a client together with its pets. If any pet is
// rejected the client is removed again.
func (s *ClientService) Intake(
	ctx context.Context,
	client domain.Client,
	pets []domain.Pet,
) (*domain.Client, []domain.Pet, error) {
	created, err := s.Create(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	saved := make([]domain.Pet, 0, len(pets))
	for i, pet := range pets {
		pet.TenantID = created.TenantID
		pet.ClientID = created.ID
		p, err := s.AddPet(ctx, pet)
		if err != nil {
			//nolint:errcheck // rollback is best effort; the pet error is what matters
			_ = s.clients.Delete(ctx, created.TenantID, created.ID)
			return nil, nil, fmt.Errorf("pet %d: %w", i+1, err)
		}
		saved = append(saved, *p)
	}
	return created, saved, nil
}

// AddPet validates and stores a pet for an existing client.
func (s *ClientService) AddPet(ctx context.Context, pet domain.Pet) (*domain.Pet, error) {
	if s.pets == nil || s.clients == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.validatePet(ctx, &pet); err != nil {
		return nil, err
	}
	if pet.ID == "" {
		pet.ID = newID()
	}
	pet.CreatedAt = s.now().UTC()
	pet.UpdatedAt = pet.CreatedAt
	if err := s.pets.Save(ctx, pet); err != nil {
		return nil, fmt.Errorf("saving pet: %w", err)
	}
	return &pet, nil
}

// GetPet retrieves a pet.
func (s *ClientService) GetPet(ctx context.Context, tenantID, id string) (*domain.Pet, error) {
	if s.pets == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.pets.Get(ctx, tenantID, id)
}

// ListPets returns a client's pets.
func (s *ClientService) ListPets(ctx context.Context, tenantID, clientID string) ([]domain.Pet, error) {
	if s.pets == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.pets.ListByClient(ctx, tenantID, clientID)
}

// UpdatePet modifies a pet.
func (s *ClientService) UpdatePet(ctx context.Context, pet domain.Pet) error {
	if s.pets == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.pets.Get(ctx, pet.TenantID, pet.ID)
	if err != nil {
		return err
	}
	if err := s.validatePet(ctx, &pet); err != nil {
		return err
	}
	pet.CreatedAt = existing.CreatedAt
	pet.UpdatedAt = s.now().UTC()
	return s.pets.Save(ctx, pet)
}

// DeletePet removes a pet.
func (s *ClientService) DeletePet(ctx context.Context, tenantID, id string) error {
	if s.pets == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.pets.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return s.pets.Delete(ctx, tenantID, id)
}

func (s *ClientService) validatePet(ctx context.Context, pet *domain.Pet) error {
	pet.Name = strings.TrimSpace(pet.Name)
	if err := required("name", pet.Name); err != nil {
		return err
	}
	if err := required("client_id", pet.ClientID); err != nil {
		return err
	}
	if _, err := s.clients.Get(ctx, pet.TenantID, pet.ClientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("client_id", "client %q does not exist", pet.ClientID)
		}
		return err
	}
	pet.Species = domain.Species(strings.ToLower(string(pet.Species)))
	if pet.Species == "" {
		pet.Species = domain.SpeciesOther
	}
	if !pet.Species.IsValid() {
		return domain.Invalid("species", "unknown species %q", pet.Species)
	}
	switch strings.ToLower(pet.Sex) {
	case "", "male", "female":
		pet.Sex = strings.ToLower(pet.Sex)
	default:
		return domain.Invalid("sex", "must be male or female, got %q", pet.Sex)
	}
	if pet.WeightKg < 0 {
		return domain.Invalid("weight_kg", "must not be negative")
	}
	if !pet.BirthDate.IsZero() && pet.BirthDate.After(s.now()) {
		return domain.Invalid("birth_date", "is in the future")
	}
	return nil
}

// normaliseClient trims fields, canonicalises the phone and validates the result.
func normaliseClient(c *domain.Client) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := required("first_name", c.FirstName); err != nil {
		return err
	}
	if c.Phone == "" && c.Email == "" {
		return domain.Invalid("phone", "a phone or email is required")
	}
	if c.Phone != "" {
		phone, ok := NormalisePhone(c.Phone)
		if !ok {
			return domain.Invalid("phone", "%q is not a 10-digit phone number", c.Phone)
		}
		c.Phone = phone
	}
	if c.Email != "" {
		addr, err := mail.ParseAddress(c.Email)
		if err != nil || addr.Address != c.Email || !strings.Contains(c.Email[strings.LastIndex(c.Email, "@"):], ".") {
			return domain.Invalid("email", "%q is not a valid email address", c.Email)
		}
	}
	if pc := strings.TrimSpace(c.Address.PostalCode); pc != "" {
		if !domain.IsPostalCode(pc) {
			return domain.Invalid("postal_code", "%q is not a five-digit postal code", pc)
		}
		c.Address.PostalCode = pc
	}
	return nil
}

// NormalisePhone strips separators and the +52 country prefix,
// returning ten digits.
func NormalisePhone(s string) (string, bool) {
	digits := onlyDigits(s)
	switch {
	case len(digits) == 13 && strings.HasPrefix(digits, "521"):
		digits = digits[3:]
	case len(digits) == 12 && strings.HasPrefix(digits, "52"):
		digits = digits[2:]
	}
	return digits, len(digits) == 10
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
