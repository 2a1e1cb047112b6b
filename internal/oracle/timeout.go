package oracle

import (
	"context"
	"time"
)

// timeoutOracle bounds every call to the wrapped oracle with a deadline
type timeoutOracle struct {
	next    Oracle
	timeout time.Duration
}

// WithTimeout decorates o so each call runs under its own deadline.
// A non-positive timeout returns o unchanged.
func WithTimeout(o Oracle, timeout time.Duration) Oracle {
	if timeout <= 0 {
		return o
	}
	return &timeoutOracle{next: o, timeout: timeout}
}

func (t *timeoutOracle) ResolveOwner(ctx context.Context, req Request) (OwnerAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ResolveOwner(ctx, req)
}

func (t *timeoutOracle) ClassifyDevice(ctx context.Context, req Request) (DeviceAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ClassifyDevice(ctx, req)
}

func (t *timeoutOracle) NormalizeSite(ctx context.Context, req Request) (SiteAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.NormalizeSite(ctx, req)
}
