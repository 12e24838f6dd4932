// Package seeddata holds reference data loaded into the database at startup.
package seeddata

import _ "embed"

//go:embed regional_defaults.json
var RegionalDefaultsJSON []byte
