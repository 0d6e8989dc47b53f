// Package migrations embeds the backend Postgres schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
