// Package migrations embeds the SQL schema files for the local response cache.
package migrations

import "embed"

// FS holds the migration files, one directory per database driver.
//
//go:embed sqlite/*.sql
var FS embed.FS
