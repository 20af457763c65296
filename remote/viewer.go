package remote

import (
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gogpu/debugdraw"
)

// Viewer is an http.Handler accepting Client connections. It rebuilds the
// frames of each session and passes them to OnFrame.
//
//	v := remote.NewViewer(func(session uuid.UUID, f *debugdraw.Frame) {
//	    f.Playback(backend, camera)
//	})
//	http.Handle("/debugdraw", v)
type Viewer struct {
	// Upgrader is used for incoming connections. The zero value accepts
	// same-origin requests only.
	Upgrader websocket.Upgrader

	onFrame func(session uuid.UUID, f *debugdraw.Frame)

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	replica *debugdraw.Replica
	latest  *debugdraw.Frame
}

// NewViewer creates a viewer. onFrame may be nil; it runs on the
// connection's goroutine.
func NewViewer(onFrame func(session uuid.UUID, f *debugdraw.Frame)) *Viewer {
	return &Viewer{
		onFrame:  onFrame,
		sessions: make(map[uuid.UUID]*session),
	}
}

// ServeHTTP upgrades the request and reads updates until the connection
// closes.
func (v *Viewer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := v.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has replied to the client.
		debugdraw.Logger().Warn("remote: upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) || (ce.Code != websocket.CloseNormalClosure && ce.Code != websocket.CloseGoingAway) {
				debugdraw.Logger().Warn("remote: read failed", "err", err)
			}
			return
		}
		id, u, err := decodeUpdate(data)
		if err != nil {
			debugdraw.Logger().Warn("remote: bad update", "err", err)
			continue
		}
		f, err := v.apply(id, u)
		if err != nil {
			// The client sends a full update after any gap.
			debugdraw.Logger().Debug("remote: update skipped", "session", id, "seq", u.Seq, "err", err)
			continue
		}
		if v.onFrame != nil {
			v.onFrame(id, f)
		}
	}
}

func (v *Viewer) apply(id uuid.UUID, u *debugdraw.Update) (*debugdraw.Frame, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s, ok := v.sessions[id]
	if !ok {
		s = &session{replica: debugdraw.NewReplica()}
		v.sessions[id] = s
		debugdraw.Logger().Debug("remote: new session", "session", id)
	}
	f, err := s.replica.Apply(u)
	if err != nil {
		return nil, err
	}
	s.latest = f
	return f, nil
}

// Latest returns the most recent frame of a session.
func (v *Viewer) Latest(id uuid.UUID) (*debugdraw.Frame, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[id]
	if !ok || s.latest == nil {
		return nil, false
	}
	return s.latest, true
}

// Sessions returns the ids of all sessions seen so far.
func (v *Viewer) Sessions() []uuid.UUID {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(v.sessions))
	for id := range v.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Forget drops the state of a session.
func (v *Viewer) Forget(id uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.sessions, id)
}
