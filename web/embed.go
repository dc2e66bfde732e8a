// Package web embeds the single-page cleaning UI served at the site root.
package web

import "embed"

//go:embed index.html
var Files embed.FS
