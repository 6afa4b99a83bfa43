package appfs

import "embed"

// FS holds the database migrations, run by goose.
//
//go:embed migrations/*.sql
var FS embed.FS
