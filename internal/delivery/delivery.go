// Package delivery defines the contract every transport entry point
// (HTTP today, workers later) fulfils so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport server.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
