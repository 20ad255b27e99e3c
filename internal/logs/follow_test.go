package logs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestFollow_StreamsUntilServerCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "key-123" {
			t.Errorf("Authorization = %q, want key-123", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, line := range []string{"episode 1 reward 0.2", "episode 2 reward 0.4"} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				t.Errorf("write: %v", err)
				return
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteMessage(websocket.CloseMessage, msg)
	}))
	defer srv.Close()

	var buf strings.Builder
	err := Follow(context.Background(), wsURL(srv), "key-123", "", &buf)
	if err != nil {
		t.Fatalf("Follow error: %v", err)
	}

	want := "episode 1 reward 0.2\nepisode 2 reward 0.4\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestFollow_Cancellation(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Keep the stream open without sending anything.
		<-hold
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var buf strings.Builder
	errCh := make(chan error, 1)
	go func() { errCh <- Follow(ctx, wsURL(srv), "key-123", "", &buf) }()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Follow error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancellation")
	}
}

func TestFollow_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such stream", http.StatusNotFound)
	}))
	defer srv.Close()

	var buf strings.Builder
	err := Follow(context.Background(), wsURL(srv), "key-123", "", &buf)
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q should carry the HTTP status", err)
	}
}
