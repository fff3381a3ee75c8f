// Package db embeds the SQL schema applied at startup when favorites
// persistence is enabled.
package db

import _ "embed"

// Schema holds the DDL for the favorites table.
//
//go:embed migrations/001_schema.sql
var Schema string
