package migrations

import "embed"

// FS contains the embedded SQLite schema for reservation storage.
//
//go:embed *.sql
var FS embed.FS
