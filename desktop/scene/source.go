package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/view"
	hub "github.com/wricardo/logjam/transport/websocket"
)

// Source is whatever the window draws and sends keys to
type Source interface {
	Move(dir engine.Direction)
	Reset()
	// Tick advances animations by dt milliseconds
	Tick(dt float64)
	// Frame returns the latest drawable state, nil until one is known
	Frame() *view.Frame
	Close() error
}

// Local runs an engine in-process
type Local struct {
	eng *engine.GameEngine
}

// NewLocal builds an engine for config
func NewLocal(config *engine.LevelConfig) (*Local, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	return &Local{eng: eng}, nil
}

func (l *Local) Move(dir engine.Direction) {
	out := l.eng.Move(dir)
	log.WithFields(log.Fields{
		"direction": dir.String(),
		"outcome":   out.Outcome,
		"committed": out.Committed,
	}).Debug("move")
}

func (l *Local) Reset() {
	l.eng.Reset()
}

func (l *Local) Tick(dt float64) {
	l.eng.Tick(dt)
}

func (l *Local) Frame() *view.Frame {
	return view.Snapshot(l.eng)
}

func (l *Local) Close() error {
	return nil
}

// Remote mirrors a server session over its websocket. The server runs the
// animations, so Tick does nothing.
type Remote struct {
	conn *websocket.Conn

	mu      sync.RWMutex
	frame   *view.Frame
	lastErr string

	writeMu sync.Mutex
	done    chan struct{}
}

// WebSocketURL turns an http(s) base URL into the session's ws(s) endpoint
func WebSocketURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws", "":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}
	u.Path += "/api/sessions/" + url.PathEscape(sessionID) + "/ws"
	return u.String(), nil
}

// CreateSession starts a session on a game server and returns its ID. An
// empty configID picks the server's default level.
func CreateSession(ctx context.Context, baseURL, configID string) (string, error) {
	body, err := json.Marshal(map[string]string{"config_id": configID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var created struct {
		ID    string `json:"id"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("create session: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create session: %s", created.Error)
	}
	return created.ID, nil
}

// Dial connects to a session on a running game server
func Dial(ctx context.Context, baseURL, sessionID string) (*Remote, error) {
	wsURL, err := WebSocketURL(baseURL, sessionID)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connect to session %s: %s", sessionID, resp.Status)
		}
		return nil, fmt.Errorf("connect to session %s: %w", sessionID, err)
	}

	r := &Remote{conn: conn, done: make(chan struct{})}
	go r.listen()

	log.WithField("session", sessionID).Info("websocket connected")
	return r, nil
}

func (r *Remote) listen() {
	defer close(r.done)

	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read error")
			}
			return
		}

		var msg hub.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Warn("websocket message parse error")
			continue
		}

		r.mu.Lock()
		switch msg.Event {
		case hub.EventFrame:
			if msg.Frame != nil {
				r.frame = msg.Frame
			}
		case hub.EventError:
			r.lastErr = fmt.Sprint(msg.Data)
		}
		r.mu.Unlock()
	}
}

func (r *Remote) send(msg hub.ClientMessage) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.conn.WriteJSON(msg); err != nil {
		log.WithError(err).WithField("type", msg.Type).Warn("websocket write error")
	}
}

func (r *Remote) Move(dir engine.Direction) {
	r.send(hub.ClientMessage{Type: "move", Direction: dir.String()})
}

func (r *Remote) Reset() {
	r.send(hub.ClientMessage{Type: "reset"})
}

func (r *Remote) Tick(dt float64) {}

func (r *Remote) Frame() *view.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

// Err returns the last error the server reported, if any
func (r *Remote) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Close sends a close frame and waits for the reader to stop
func (r *Remote) Close() error {
	r.writeMu.Lock()
	r.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	r.writeMu.Unlock()

	err := r.conn.Close()
	<-r.done
	return err
}
