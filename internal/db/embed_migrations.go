package db

import "embed"

// MigrationFS embeds the SQL migration files from internal/db/migrations.
// The migrate runner (cmd/migrate and server startup) applies them.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
