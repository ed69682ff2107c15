// Package data embeds the bundled course dataset.
package data

import _ "embed"

// Courses is the bundled dataset document, used when no external source is configured.
//
//go:embed courses.json
var Courses []byte
