package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
)

func TestFeedStreamsBatches(t *testing.T) {
	feed := app.NewFeed()
	service := app.NewSurveyService(seededCatalog(), memory.NewResponseStore(), app.WithFeed(feed))
	server := httptest.NewServer(NewRouter(Deps{Service: service, Feed: feed}))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/responses"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgType, payload := readNext(t, conn, "subscribed")
	if msgType != "subscribed" || payload["subscribers"] != float64(1) {
		t.Fatalf("unexpected subscribed message %s %v", msgType, payload)
	}

	id := int64(1)
	if _, err := service.SubmitBatch(context.Background(), []domain.Entry{
		{QuestionID: &id, Answer: "Yes"},
		{QuestionID: &id, Answer: ""},
	}, false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, payload = readNext(t, conn, "batch")
	if payload["accepted"] != float64(1) || payload["skipped"] != float64(1) || payload["custom"] != false {
		t.Fatalf("unexpected batch payload %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(t, conn, "error")
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
