package engine

import "context"

// LoginPath is the public entry of the protected subtree.
const LoginPath = "/admin/login"

// RouteAccess decides which console routes need a session.
type RouteAccess interface {
	// Protected reports whether path requires an authenticated session. On error callers must
	// treat the route as protected.
	Protected(ctx context.Context, path string) (bool, error)
}
