package ui

import "embed"

// Templates embeds the html/template sources for the page layouts.
//
//go:embed templates
var Templates embed.FS

// Static embeds the assets served under /static/ (theme toggle script,
// stylesheet, default logo mark).
//
//go:embed static
var Static embed.FS
