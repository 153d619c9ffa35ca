package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hperssn/pomobot/internal/chat"
)

// StreamConversation pushes every outbound message for the user as a
// server-sent event until the client goes away.
func StreamConversation(hub *chat.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub := hub.Subscribe(userID)
		defer sub.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// The subscription is live once the client sees the headers.
		w.Write([]byte(": connected\n\n"))
		flusher.Flush()

		for {
			select {
			case msg, ok := <-sub.Messages():
				if !ok {
					return
				}

				data, err := json.Marshal(msg)
				if err != nil {
					log.Printf("encode message for %s: %v", userID, err)
					continue
				}
				w.Write([]byte("data: "))
				w.Write(data)
				w.Write([]byte("\n\n"))

				flusher.Flush()

			case <-r.Context().Done():
				return
			}
		}
	}
}
