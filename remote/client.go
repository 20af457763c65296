// Package remote relays debugdraw frames to a remote viewer over a
// websocket.
//
// A Client is a debugdraw.Sink: install it with debugdraw.WithSink and
// every EndFrame queues the frame's update for a background writer. The
// first update of a connection, and any update following a dropped one,
// is sent as a full snapshot so the viewer never has to ask for one.
//
// A Viewer is an http.Handler that accepts those connections, rebuilds
// frames with a debugdraw.Replica per session and hands them to a
// callback.
//
// Only commands and draw group poses cross the wire. Camera matrices stay
// with the context that set them.
package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gogpu/debugdraw"
)

var (
	// ErrClosed is returned by Send after the client was closed or its
	// connection failed.
	ErrClosed = errors.New("remote: client closed")

	// ErrUnknownCommand is reported for a command type the decoder does not
	// know.
	ErrUnknownCommand = errors.New("remote: unknown command type")
)

// Defaults used by Dial.
const (
	DefaultQueueSize    = 8
	DefaultWriteTimeout = 5 * time.Second
)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	dialer       *websocket.Dialer
	queueSize    int
	writeTimeout time.Duration
	session      uuid.UUID
}

// WithDialer replaces websocket.DefaultDialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *clientOptions) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithQueueSize sets how many frames may wait for the writer. Frames sent
// while the queue is full are dropped.
func WithQueueSize(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithWriteTimeout bounds each websocket write.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithSession fixes the session id instead of generating a random one.
func WithSession(id uuid.UUID) Option {
	return func(o *clientOptions) {
		o.session = id
	}
}

// Client sends frame updates to a Viewer. It implements debugdraw.Sink
// and io.Closer. Send never blocks.
type Client struct {
	conn         *websocket.Conn
	session      uuid.UUID
	writeTimeout time.Duration

	queue      chan *debugdraw.Frame
	done       chan struct{}
	writerDone chan struct{}
	readerDone chan struct{}
	stopOnce   sync.Once
	closeOnce  sync.Once

	errMu sync.Mutex
	err   error

	sent    atomic.Uint64
	dropped atomic.Uint64
}

var _ debugdraw.Sink = (*Client)(nil)

// Dial connects to a Viewer at url ("ws://host:port/path").
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	o := clientOptions{
		dialer:       websocket.DefaultDialer,
		queueSize:    DefaultQueueSize,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == uuid.Nil {
		o.session = uuid.New()
	}

	conn, _, err := o.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", url, err)
	}

	c := &Client{
		conn:         conn,
		session:      o.session,
		writeTimeout: o.writeTimeout,
		queue:        make(chan *debugdraw.Frame, o.queueSize),
		done:         make(chan struct{}),
		writerDone:   make(chan struct{}),
		readerDone:   make(chan struct{}),
	}
	go c.writeLoop()
	go c.readLoop()

	debugdraw.Logger().Debug("remote: connected", "url", url, "session", c.session)
	return c, nil
}

// Session returns the id the viewer files this client's frames under.
func (c *Client) Session() uuid.UUID {
	return c.session
}

// Send queues f for the writer. A full queue drops the frame; the next
// frame that goes out is then a full snapshot.
func (c *Client) Send(f *debugdraw.Frame) error {
	select {
	case <-c.done:
		if err := c.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrClosed, err)
		}
		return ErrClosed
	default:
	}

	select {
	case c.queue <- f:
	default:
		c.dropped.Add(1)
		debugdraw.Logger().Debug("remote: queue full, frame dropped", "seq", f.Seq())
	}
	return nil
}

// Stats returns the number of updates written and of frames dropped,
// either on a full queue or because they could not be encoded.
func (c *Client) Stats() (sent, dropped uint64) {
	return c.sent.Load(), c.dropped.Load()
}

// Err returns the error that stopped the client, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close stops the writer, sends a close message and closes the
// connection. Frames still queued are discarded.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.stop(nil)
		<-c.writerDone

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		deadline := time.Now().Add(c.writeTimeout)
		if werr := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			debugdraw.Logger().Debug("remote: close message failed", "err", werr)
		}
		err = c.conn.Close()
		<-c.readerDone
	})
	return err
}

// stop ends the writer, recording the first failure.
func (c *Client) stop(err error) {
	c.stopOnce.Do(func() {
		if err != nil {
			c.errMu.Lock()
			c.err = err
			c.errMu.Unlock()
		}
		close(c.done)
	})
}

func (c *Client) writeLoop() {
	defer close(c.writerDone)

	var last uint64
	for {
		select {
		case <-c.done:
			return
		case f := <-c.queue:
			u := f.Update()
			if last == 0 || f.Seq() != last+1 {
				u = f.Snapshot()
			}
			data, err := encodeUpdate(c.session, u)
			if err != nil {
				// The frame is skipped; the next one goes out in full.
				debugdraw.Logger().Warn("remote: frame not encodable, dropped", "seq", f.Seq(), "err", err)
				c.dropped.Add(1)
				last = 0
				continue
			}
			if err := c.write(data); err != nil {
				debugdraw.Logger().Warn("remote: write failed", "seq", f.Seq(), "err", err)
				c.stop(err)
				return
			}
			last = f.Seq()
			c.sent.Add(1)
		}
	}
}

func (c *Client) write(data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop processes control frames and notices when the viewer goes away.
func (c *Client) readLoop() {
	defer close(c.readerDone)
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-c.done:
				default:
					debugdraw.Logger().Warn("remote: connection lost", "err", err)
				}
			}
			c.stop(err)
			return
		}
	}
}
