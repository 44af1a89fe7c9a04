// Package services implements the driving ports: tenancy, intake, scheduling,
// inventory imports, receipts, delivery routes, postal lookup, seeding and
// the background scheduler. Services depend only on driven ports, so the
// same logic runs against the memory, SQLite and Postgres stores.
package services
