package logs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const closeGrace = time.Second

// Follow dials the log stream and copies each message to w as a line
// until the server closes the stream or ctx is canceled. A normal server
// close returns nil; cancellation returns ctx.Err().
func Follow(ctx context.Context, streamURL, accessKey, proxy string, w io.Writer) error {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return fmt.Errorf("parsing proxy URL: %w", err)
		}
		dialer.Proxy = http.ProxyURL(proxyURL)
	}

	header := http.Header{}
	header.Set("Authorization", accessKey)

	conn, resp, err := dialer.DialContext(ctx, streamURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connecting to %s (status %d): %w", streamURL, resp.StatusCode, err)
		}
		return fmt.Errorf("connecting to %s: %w", streamURL, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("log stream: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", message); err != nil {
			return err
		}
	}
}
