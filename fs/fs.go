// Package appfs embeds the files shipped inside the binaries.
package appfs

import "embed"

//go:embed migrations/*.sql
var FS embed.FS

// MigrationsDir is the goose migrations directory within FS.
const MigrationsDir = "migrations"
