// Package schemas provides the embedded base schema of each database driver.
package schemas

import "embed"

// Migrations contains the SQL files under migrations/<driver>/.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS
