package httpapi

import (
	"context"
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// tenantStore is the CRUD shape shared by the tenant-owned admin services.
type tenantStore[T any] interface {
	Create(ctx context.Context, v T) (*T, error)
	Get(ctx context.Context, tenantID, id string) (*T, error)
	List(ctx context.Context, tenantID string) ([]T, error)
	Update(ctx context.Context, v T) error
	Delete(ctx context.Context, tenantID, id string) error
}

// resource serves CRUD endpoints for one tenant-owned entity.
type resource[T, J any] struct {
	name string
	svc  tenantStore[T]

	toJSON func(T) J
	// fromJSON builds the entity from a request body, forcing the tenant and ID.
	fromJSON func(body J, tenantID, id string) T
}

func (res resource[T, J]) available() error {
	if res.svc == nil {
		return notImplemented(res.name)
	}
	return nil
}

func (res resource[T, J]) list(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := res.available(); err != nil {
		return err
	}
	items, err := res.svc.List(r.Context(), tenant.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, mapSlice(items, res.toJSON))
	return nil
}

func (res resource[T, J]) create(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := res.available(); err != nil {
		return err
	}
	var body J
	if err := decode(r, &body); err != nil {
		return err
	}
	created, err := res.svc.Create(r.Context(), res.fromJSON(body, tenant.ID, ""))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, res.toJSON(*created))
	return nil
}

func (res resource[T, J]) get(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := res.available(); err != nil {
		return err
	}
	item, err := res.svc.Get(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res.toJSON(*item))
	return nil
}

func (res resource[T, J]) update(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := res.available(); err != nil {
		return err
	}
	var body J
	if err := decode(r, &body); err != nil {
		return err
	}
	if err := res.svc.Update(r.Context(), res.fromJSON(body, tenant.ID, r.PathValue("id"))); err != nil {
		return err
	}
	return res.get(w, r, tenant)
}

func (res resource[T, J]) remove(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if err := res.available(); err != nil {
		return err
	}
	if err := res.svc.Delete(r.Context(), tenant.ID, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// routes registers the five CRUD endpoints under path.
func (res resource[T, J]) routes(register func(string, tenantHandlerFunc), path string) {
	register("GET "+path, res.list)
	register("POST "+path, res.create)
	register("GET "+path+"/{id}", res.get)
	register("PUT "+path+"/{id}", res.update)
	register("DELETE "+path+"/{id}", res.remove)
}

func staffResource(svc tenantStore[domain.Staff]) resource[domain.Staff, staffJSON] {
	return resource[domain.Staff, staffJSON]{
		name:   "staff",
		svc:    svc,
		toJSON: func(v domain.Staff) staffJSON { return staffJSON(v) },
		fromJSON: func(b staffJSON, tenantID, id string) domain.Staff {
			b.TenantID, b.ID = tenantID, id
			return domain.Staff(b)
		},
	}
}

func roomResource(svc tenantStore[domain.Room]) resource[domain.Room, roomJSON] {
	return resource[domain.Room, roomJSON]{
		name:   "rooms",
		svc:    svc,
		toJSON: func(v domain.Room) roomJSON { return roomJSON(v) },
		fromJSON: func(b roomJSON, tenantID, id string) domain.Room {
			b.TenantID, b.ID = tenantID, id
			return domain.Room(b)
		},
	}
}

func serviceResource(svc tenantStore[domain.Service]) resource[domain.Service, serviceJSON] {
	return resource[domain.Service, serviceJSON]{
		name:   "services",
		svc:    svc,
		toJSON: func(v domain.Service) serviceJSON { return serviceJSON(v) },
		fromJSON: func(b serviceJSON, tenantID, id string) domain.Service {
			b.TenantID, b.ID = tenantID, id
			return domain.Service(b)
		},
	}
}

func inventoryResource(svc tenantStore[domain.InventoryItem]) resource[domain.InventoryItem, inventoryItemJSON] {
	return resource[domain.InventoryItem, inventoryItemJSON]{
		name:   "inventory",
		svc:    svc,
		toJSON: func(v domain.InventoryItem) inventoryItemJSON { return inventoryItemJSON(v) },
		fromJSON: func(b inventoryItemJSON, tenantID, id string) domain.InventoryItem {
			b.TenantID, b.ID = tenantID, id
			return domain.InventoryItem(b)
		},
	}
}

func receiptTemplateResource(svc tenantStore[domain.ReceiptTemplate]) resource[domain.ReceiptTemplate, receiptTemplateJSON] {
	return resource[domain.ReceiptTemplate, receiptTemplateJSON]{
		name:   "receipt templates",
		svc:    svc,
		toJSON: func(v domain.ReceiptTemplate) receiptTemplateJSON { return receiptTemplateJSON(v) },
		fromJSON: func(b receiptTemplateJSON, tenantID, id string) domain.ReceiptTemplate {
			b.TenantID, b.ID = tenantID, id
			return domain.ReceiptTemplate(b)
		},
	}
}
