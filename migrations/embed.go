// Package migrations embeds the goose migration scripts so the server
// binary can apply them without a migrations directory on disk.
package migrations

import "embed"

// FS holds the SQL migration scripts in lexical (version) order.
//
//go:embed *.sql
var FS embed.FS
