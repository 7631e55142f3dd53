// Package migrations embeds the client's local SQLite schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
