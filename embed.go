package vyayam

import "embed"

// WebFS holds the embedded app shell.
//
//go:embed web
var WebFS embed.FS
