package httpclients

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/infrastructure/logger"

	"resty.dev/v3"
)

type requestStartKey struct{}

// NewClient builds a resty client that debug-logs every outbound exchange.
// Bodies are never logged; chat content and credentials pass through here.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", "chat-api/"+clientName)

	client.AddRequestMiddleware(func(_ *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), requestStartKey{}, time.Now()))
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		started, _ := r.Request.Context().Value(requestStartKey{}).(time.Time)

		event := log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(started))
		if raw := r.Request.RawRequest; raw != nil {
			event = event.
				Str("method", raw.Method).
				Str("url", raw.URL.Redacted())
		}
		event.Msg("outbound http request")
		return nil
	})

	return client
}
