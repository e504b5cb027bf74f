package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	SessionIDKey ctxKey = "session_id"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// Time logs the duration of an external call named name. Use it as
//
//	defer obs.Time(ctx, "ors.Route")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	sessionID, _ := ctx.Value(SessionIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s session=%s op=%s dur=%dms err=%v", reqID, sessionID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s session=%s op=%s dur=%dms", reqID, sessionID, name, dur.Milliseconds())
	}
}
