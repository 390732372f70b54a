package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"survey-service/internal/app"
)

// FeedHandler streams stored batch summaries to websocket clients.
type FeedHandler struct {
	feed     *app.Feed
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewFeedHandler(feed *app.Feed, log *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feed: feed,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type subscribedPayload struct {
	Subscribers int `json:"subscribers"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS handles GET /ws/responses
func (h *FeedHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := h.feed.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Single writer; after a failed write it keeps draining so senders never block,
	// and closing the connection ends the read loop below.
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				failed = true
				_ = conn.Close()
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "batch", Payload: event}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "subscribed", Payload: subscribedPayload{Subscribers: h.feed.Subscribers()}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
