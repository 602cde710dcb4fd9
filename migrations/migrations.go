// Package migrations embeds the catalog schema so binaries carry it with them.
package migrations

import "embed"

// FS holds the numbered up/down SQL files read by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
