// Package migrations embeds the inventory schema, stored routines and stock triggers.
package migrations

import "embed"

// FS holds the *.sql files applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
