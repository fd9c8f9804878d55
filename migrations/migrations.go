// Package migrations embeds the schema files so binaries migrate on boot
// without shipping the directory alongside the image.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
