// Package sqlstore provides SQL implementations of the driven store ports.
//
// Two dialects share one set of queries: SQLite through modernc.org/sqlite,
// a pure Go driver that needs no CGO, and PostgreSQL through lib/pq for
// multi-clinic deployments. Queries are written with ? placeholders and
// rebound for Postgres. A single Store hands out every store interface:
//
//   - CompanyStore, TenantStore: tenancy
//   - ClientStore, PetStore: intake
//   - StaffStore, RoomStore, ServiceStore: clinic catalog
//   - AppointmentStore, InventoryStore, ReceiptStore, RouteStore
//   - PostalCodeStore: the shared colonia catalog
//   - SchedulerStore: background task state
//
// # Schema
//
// Each dialect has versioned NNN_name.up.sql migrations under migrations/.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the SQLite database is stored at ~/.vetdesk/data/vetdesk.db.
// The Postgres DSN comes from settings or the VETDESK_DSN environment variable.
//
// # Tenancy
//
// Tenant-scoped reads filter on tenant_id, so a row owned by another tenant
// is reported as domain.ErrNotFound. Deleting a tenant cascades to its rows.
package sqlstore
