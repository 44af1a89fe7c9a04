// Package migrations embeds the schema migrations of the SQL store.
// Each dialect has its own directory of NNN_name.up.sql files.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
