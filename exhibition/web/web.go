// Package web embeds the viewer and control panel pages. Both are static
// HTML that poll the JSON API; the server serves them as-is.
package web

import _ "embed"

//go:embed viewer.html
var ViewerPage []byte

//go:embed control.html
var ControlPage []byte
