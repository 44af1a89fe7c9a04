package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Vetdesk resources.
	uriScheme = "vetdesk://"
)

// registerResources adds the tenants list and, with a catalog port, the
// per-tenant services template.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tenants",
		Name:        "tenants",
		Description: "Clinics managed by this Vetdesk instance",
		MIMEType:    "application/json",
	}, s.handleTenantsResource)

	if s.ports.Catalog == nil {
		return
	}
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tenants/{tenantId}/services",
		Name:        "tenant-services",
		Description: "Service catalog of a clinic, with durations and prices",
		MIMEType:    "application/json",
	}, s.handleServicesResource)
}

type tenantInfo struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Timezone    string `json:"timezone"`
	SlotMinutes int    `json:"slot_minutes"`
	Phone       string `json:"phone,omitempty"`
}

type serviceInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	StaffRole       string `json:"staff_role,omitempty"`
	RoomKind        string `json:"room_kind,omitempty"`
}

func (s *Server) handleTenantsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tenants, err := s.ports.Tenants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}

	infos := make([]tenantInfo, len(tenants))
	for i := range tenants {
		t := &tenants[i]
		infos[i] = tenantInfo{
			ID:          t.ID,
			Slug:        t.Slug,
			Name:        t.Name,
			Timezone:    t.Timezone,
			SlotMinutes: int(t.Slot().Minutes()),
			Phone:       t.Phone,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleServicesResource lists the active services of a clinic. The tenant
// segment accepts either the ID or the slug.
func (s *Server) handleServicesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ref := extractTenantRef(req.Params.URI)
	if ref == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	tenant, err := s.ports.Tenants.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving tenant: %w", err)
	}

	services, err := s.ports.Catalog.List(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}

	infos := make([]serviceInfo, 0, len(services))
	for _, svc := range services {
		if !svc.Active {
			continue
		}
		infos = append(infos, serviceInfo{
			ID:              svc.ID,
			Name:            svc.Name,
			Category:        svc.Category,
			DurationMinutes: svc.DurationMinutes,
			PriceCents:      svc.PriceCents,
			StaffRole:       string(svc.StaffRole),
			RoomKind:        string(svc.RoomKind),
		})
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTenantRef extracts the tenant from a URI like vetdesk://tenants/{tenantId}/services.
func extractTenantRef(uri string) string {
	const prefix = uriScheme + "tenants/"
	const suffix = "/services"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	ref := strings.TrimSuffix(uri, suffix)
	if strings.Contains(ref, "/") {
		return ""
	}
	return ref
}
