package stream

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mold-tracker/internal/realtime"
)

const keepAlive = 25 * time.Second

type Subscriber interface {
	Subscribe(topic string) *realtime.Subscription
}

// Stream pushes every snapshot of {topic} as a Server-Sent Event until the
// client goes away.
func Stream(log *slog.Logger, hub Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stream.Stream"

		topic := chi.URLParam(r, "topic")
		if !realtime.ValidTopic(topic) {
			http.Error(w, "Unknown topic", http.StatusNotFound)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			log.With(slog.String("op", op)).Error("response writer does not support flushing")
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub := hub.Subscribe(topic)
		defer sub.Release()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case snap, ok := <-sub.Events:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", snap.Version, snap.Topic, snap.Data); err != nil {
					log.With(slog.String("op", op), slog.String("topic", topic)).Debug("client write failed", slog.String("error", err.Error()))
					return
				}
				flusher.Flush()
			}
		}
	}
}
