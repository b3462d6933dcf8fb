package testutil

import (
	"context"
	"time"

	"backoffice/pkg/requestcontext"
)

// RequestContext returns a context carrying the metadata the HTTP middleware
// would attach, for service tests.
func RequestContext(actor, requestID string, now time.Time) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	ctx = requestcontext.WithRequestID(ctx, requestID)
	ctx = requestcontext.WithClientMetadata(ctx, "192.0.2.10", "backoffice-test")
	return requestcontext.WithTime(ctx, now)
}
