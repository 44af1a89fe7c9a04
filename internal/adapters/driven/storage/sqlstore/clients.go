package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// ==================== Client Store ====================

type clientStore struct {
	store *Store
}

var _ driven.ClientStore = (*clientStore)(nil)

const clientColumns = `id, tenant_id, first_name, last_name, email, phone, address, notes, created_at, updated_at`

// Save stores or updates a client.
func (s *clientStore) Save(ctx context.Context, c domain.Client) error {
	address, err := encodeJSON(c.Address)
	if err != nil {
		return fmt.Errorf("encoding address: %w", err)
	}
	err = s.store.exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, c.ID, c.TenantID, c.FirstName, c.LastName, c.Email, c.Phone, address, c.Notes,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	return saveError("client", err)
}

// Get retrieves a client by ID within a tenant.
func (s *clientStore) Get(ctx context.Context, tenantID, id string) (*domain.Client, error) {
	return queryOne(ctx, s.store, scanClient,
		`SELECT `+clientColumns+` FROM clients WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

// List returns a tenant's clients ordered by last and first name.
func (s *clientStore) List(ctx context.Context, tenantID string) ([]domain.Client, error) {
	clients, err := queryAll(ctx, s.store, scanClient, `
		SELECT `+clientColumns+` FROM clients
		WHERE tenant_id = ?
		ORDER BY last_name, first_name, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// Delete removes a client. Its pets go with it through the foreign key.
func (s *clientStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("client", s.store.exec(ctx,
		`DELETE FROM clients WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanClient(row scanner) (*domain.Client, error) {
	var c domain.Client
	var address, createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&address, &c.Notes, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	if err := decodeJSON(address, &c.Address); err != nil {
		return nil, fmt.Errorf("decoding address of client %s: %w", c.ID, err)
	}
	var ts stamps
	c.CreatedAt = ts.at("created_at", createdAt)
	c.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning client %s: %w", c.ID, ts.err)
	}
	return &c, nil
}

// ==================== Pet Store ====================

type petStore struct {
	store *Store
}

var _ driven.PetStore = (*petStore)(nil)

const petColumns = `id, tenant_id, client_id, name, species, breed, sex, birth_date, weight_kg, neutered, notes, created_at, updated_at`

// Save stores or updates a pet. The owning client must exist.
func (s *petStore) Save(ctx context.Context, p domain.Pet) error {
	err := s.store.exec(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			name = excluded.name,
			species = excluded.species,
			breed = excluded.breed,
			sex = excluded.sex,
			birth_date = excluded.birth_date,
			weight_kg = excluded.weight_kg,
			neutered = excluded.neutered,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, p.ID, p.TenantID, p.ClientID, p.Name, string(p.Species), p.Breed, p.Sex,
		formatNullableTime(p.BirthDate), p.WeightKg, p.Neutered, p.Notes,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	return saveError("pet", err)
}

// Get retrieves a pet by ID within a tenant.
func (s *petStore) Get(ctx context.Context, tenantID, id string) (*domain.Pet, error) {
	return queryOne(ctx, s.store, scanPet,
		`SELECT `+petColumns+` FROM pets WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

// List returns all pets of a tenant ordered by name.
func (s *petStore) List(ctx context.Context, tenantID string) ([]domain.Pet, error) {
	pets, err := queryAll(ctx, s.store, scanPet,
		`SELECT `+petColumns+` FROM pets WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

// ListByClient returns the pets owned by a client.
func (s *petStore) ListByClient(ctx context.Context, tenantID, clientID string) ([]domain.Pet, error) {
	pets, err := queryAll(ctx, s.store, scanPet, `
		SELECT `+petColumns+` FROM pets
		WHERE tenant_id = ? AND client_id = ?
		ORDER BY name, id
	`, tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

// Delete removes a pet.
func (s *petStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("pet", s.store.exec(ctx,
		`DELETE FROM pets WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanPet(row scanner) (*domain.Pet, error) {
	var p domain.Pet
	var species, createdAt, updatedAt string
	var birthDate sql.NullString
	if err := row.Scan(&p.ID, &p.TenantID, &p.ClientID, &p.Name, &species, &p.Breed, &p.Sex,
		&birthDate, &p.WeightKg, &p.Neutered, &p.Notes, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning pet: %w", err)
	}
	p.Species = domain.Species(species)
	var ts stamps
	p.BirthDate = ts.nullable("birth_date", birthDate)
	p.CreatedAt = ts.at("created_at", createdAt)
	p.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning pet %s: %w", p.ID, ts.err)
	}
	return &p, nil
}
