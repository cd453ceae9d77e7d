// Package datasheetui provides embedded assets for production builds.
package datasheetui

import "embed"

// Embedded assets for production builds.
// In dev mode with HTTP_TEMPLATE_DIR set, templates are loaded from disk instead.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed web/templates/*.tmpl
var TemplateFS embed.FS
