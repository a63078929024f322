// Package migrations embeds the SQL schema of the post ledger.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
