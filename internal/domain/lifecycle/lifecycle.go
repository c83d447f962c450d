// Package lifecycle holds shared shutdown constants.
package lifecycle

import "time"

// DefaultTimeout bounds graceful-shutdown work such as HTTP drain and DB close.
const DefaultTimeout = 10 * time.Second
