package docs

import "embed"

// FS contains the reference docs bundled with the sift binary.
//
//go:embed *.md
var FS embed.FS
