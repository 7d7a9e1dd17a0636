// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketBridge is a Transport that exchanges CAN frames with a remote
// bridge over a WebSocket. Each binary message carries one frame in the
// SocketCAN struct can_frame layout.
//
// A reader goroutine pumps incoming messages into a buffered channel so
// Receive can offer a bounded wait without tearing down the WebSocket
// read path on timeout.
type WebSocketBridge struct {
	conn   *websocket.Conn
	url    string
	rx     chan Frame
	done   chan struct{}
	sendMu sync.Mutex
	closed bool
	mu     sync.Mutex
}

// WebSocketOptions configures the bridge connection.
type WebSocketOptions struct {
	Username      string
	Password      string
	SkipSSLVerify bool // wss:// only
}

// OpenWebSocketBridge dials a ws:// or wss:// CAN bridge.
func OpenWebSocketBridge(wsURL string, opts WebSocketOptions) (*WebSocketBridge, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("canlink: invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("canlink: unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: opts.SkipSSLVerify,
		}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("canlink: bridge connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("canlink: bridge connection failed: %w", err)
	}

	w := &WebSocketBridge{
		conn: conn,
		url:  wsURL,
		rx:   make(chan Frame, 64),
		done: make(chan struct{}),
	}
	go w.readLoop()
	return w, nil
}

// readLoop pumps binary messages into the receive channel until the
// connection fails or the bridge is closed.
func (w *WebSocketBridge) readLoop() {
	defer close(w.rx)
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		var f Frame
		if err := f.UnmarshalBinary(data); err != nil {
			continue
		}
		select {
		case w.rx <- f:
		case <-w.done:
			return
		}
	}
}

// Name returns the bridge URL.
func (w *WebSocketBridge) Name() string {
	return w.url
}

func (w *WebSocketBridge) Send(f Frame) error {
	if w.isClosed() {
		return ErrClosed
	}
	raw, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if err := w.conn.WriteMessage(websocket.BinaryMessage, raw); err != nil {
		return fmt.Errorf("canlink: bridge write: %w", err)
	}
	return nil
}

func (w *WebSocketBridge) Receive(wait time.Duration) (Frame, bool, error) {
	if w.isClosed() {
		return Frame{}, false, ErrClosed
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case f, ok := <-w.rx:
		if !ok {
			return Frame{}, false, ErrClosed
		}
		return f, true, nil
	case <-timer.C:
		return Frame{}, false, nil
	}
}

func (w *WebSocketBridge) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.conn.Close()
}

func (w *WebSocketBridge) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
