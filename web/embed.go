// Package web holds the embedded view templates.
package web

import "embed"

//go:embed templates
var Templates embed.FS
