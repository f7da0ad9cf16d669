// Package delivery defines the transport-facing contracts of the application.
package delivery

import "context"

// Delivery is a transport endpoint that serves requests until it is stopped
// through the application lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
