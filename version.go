package remac

import _ "embed"

// Version is the release version, sourced from the VERSION file at build
// time. Callers should strings.TrimSpace it before display.
//
//go:embed VERSION
var Version string
