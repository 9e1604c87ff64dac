package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"hrleave/internal/requestctx"
)

const (
	headerRequestID = "X-Request-ID"
	headerActor     = "X-Actor-ID"
	defaultActor    = "system"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(headerRequestID))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}

// Actor records the caller identity forwarded by the gateway in front of the
// service. Requests without one act as "system".
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(headerActor))
		if actor == "" {
			actor = defaultActor
		}
		if len(actor) > 100 {
			actor = actor[:100]
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithActor(r.Context(), actor)))
	})
}

func GetActor(ctx context.Context) string {
	if actor := requestctx.GetActor(ctx); actor != "" {
		return actor
	}
	return defaultActor
}
