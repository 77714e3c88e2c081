// Package migrations embeds the SQL schema for the migrate command and integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
