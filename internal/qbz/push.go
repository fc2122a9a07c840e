package qbz

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// PushChannel delivers change notifications from the device. Payloads are
// not interpreted; every frame means "something changed". Signals is closed
// once the underlying socket ends.
type PushChannel interface {
	Signals() <-chan struct{}
	Close() error
}

type wsPush struct {
	conn    *websocket.Conn
	signals chan struct{}
	once    sync.Once
	err     error
}

// OpenPush dials the device's websocket endpoint.
func (c *Client) OpenPush(ctx context.Context) (PushChannel, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	endpoint := c.pushURL()
	conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}
	p := &wsPush{
		conn:    conn,
		signals: make(chan struct{}, 1),
	}
	go p.readLoop()
	return p, nil
}

func (c *Client) pushURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/api/ws"
	values := url.Values{}
	values.Set("token", c.token)
	u.RawQuery = values.Encode()
	return u.String()
}

func (p *wsPush) Signals() <-chan struct{} {
	return p.signals
}

func (p *wsPush) Close() error {
	p.once.Do(func() {
		err := p.conn.Close()
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			p.err = err
		}
	})
	return p.err
}

func (p *wsPush) readLoop() {
	defer close(p.signals)
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
		select {
		case p.signals <- struct{}{}:
		default:
		}
	}
}
