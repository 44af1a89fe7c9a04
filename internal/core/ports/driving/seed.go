package driving

import "context"

// SeedReport counts the records written by a seed run.
// Re-running a seed updates the same records instead of adding new ones.
type SeedReport struct {
	Companies    int
	Tenants      int
	Staff        int
	Rooms        int
	Services     int
	Clients      int
	Pets         int
	Inventory    int
	Templates    int
	Routes       int
	PostalCodes  int
	Appointments int
}

// SeedService loads demo data.
type SeedService interface {
	// Seed upserts the full demo dataset.
	Seed(ctx context.Context) (*SeedReport, error)

	// SeedRoutes creates the demo delivery routes for a tenant,
	// skipping routes whose name already exists.
	SeedRoutes(ctx context.Context, tenantID string) (int, error)
}
