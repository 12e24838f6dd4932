// Package templates holds the HTML templates rendered by the service layer.
package templates

import _ "embed"

//go:embed dashboard.html
var Dashboard string
