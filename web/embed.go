// Package web holds the static assets of the selection page.
package web

import "embed"

// Assets is the page build under dist/.
//
//go:embed dist
var Assets embed.FS
