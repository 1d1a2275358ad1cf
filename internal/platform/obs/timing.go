package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time measures an operation and logs its duration (and error, if any)
// when the returned func is deferred with a pointer to the named error.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start).Milliseconds()

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, op, dur, *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, op, dur)
	}
}
