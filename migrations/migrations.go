// Package migrations embeds the canonical schema so the binary migrates without the source tree.
package migrations

import "embed"

//go:embed postgres/*.sql
var FS embed.FS

const PostgresDir = "postgres"
