package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/logjam/game/config"
	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/service"
	"github.com/wricardo/logjam/game/session"
	"github.com/wricardo/logjam/game/view"
	"github.com/wricardo/logjam/transport/websocket"
)

// stripLevel is a single row: land with a stump at x=2 and water at the end
func stripLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "Strip",
		Description: "One row of land ending in water",
		Layers: [][]string{
			{"#### "},
			{"..@.."},
		},
		Legend: engine.DefaultLegend(),
		Start:  engine.Position{X: 0, Y: 0},
	}
}

func setupServer(t *testing.T, hub *websocket.Hub) (*Server, service.GameService) {
	t.Helper()
	dir := t.TempDir()
	data, err := json.Marshal(stripLevel())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strip.json"), data, 0644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(), configs)
	return NewServer(svc, hub), svc
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rr := doRequest(t, s, "POST", "/api/sessions", map[string]string{"config_id": "strip"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var info service.SessionInfo
	decode(t, rr, &info)
	require.NotEmpty(t, info.ID)
	return info.ID
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t, nil)
	rr := doRequest(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestSessionEndpoints(t *testing.T) {
	s, _ := setupServer(t, nil)

	t.Run("create with level", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions", map[string]string{"config_id": "strip"})
		require.Equal(t, http.StatusCreated, rr.Code)
		var info service.SessionInfo
		decode(t, rr, &info)
		assert.Equal(t, "strip", info.ConfigName)
		require.NotNil(t, info.GameState)
		assert.Equal(t, engine.Position{X: 0, Y: 0}, info.GameState.Player.Position)
		assert.Equal(t, []string{"P#o#~"}, info.GameState.Rows)
	})

	t.Run("create with default level and no body", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions", nil)
		require.Equal(t, http.StatusCreated, rr.Code)
		var info service.SessionInfo
		decode(t, rr, &info)
		assert.Equal(t, "strip", info.ConfigName)
	})

	t.Run("unknown level", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions", map[string]string{"config_id": "atlantis"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "strip")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions", "{")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/sessions?sort=created&order=asc&limit=1", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Count    int                    `json:"count"`
			Total    int                    `json:"total"`
			Sessions []*service.SessionInfo `json:"sessions"`
			Sort     string                 `json:"sort"`
			Order    string                 `json:"order"`
		}
		decode(t, rr, &resp)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, "created", resp.Sort)
		assert.Equal(t, "asc", resp.Order)
	})

	t.Run("get and delete", func(t *testing.T) {
		id := createSession(t, s)

		rr := doRequest(t, s, "GET", "/api/sessions/"+id, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doRequest(t, s, "GET", "/api/sessions/"+strings.ToUpper(id), nil)
		assert.Equal(t, http.StatusOK, rr.Code, "session IDs are case-insensitive")

		rr = doRequest(t, s, "DELETE", "/api/sessions/"+id, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doRequest(t, s, "GET", "/api/sessions/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = doRequest(t, s, "DELETE", "/api/sessions/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMoveEndpoints(t *testing.T) {
	s, _ := setupServer(t, nil)
	id := createSession(t, s)

	t.Run("walk", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/move", map[string]string{"direction": "right"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var result service.MoveResult
		decode(t, rr, &result)
		assert.True(t, result.Success)
		assert.Equal(t, engine.OutcomeWalk, result.Outcome)
		assert.Equal(t, engine.Position{X: 1, Y: 0}, result.To)
		assert.Equal(t, engine.Position{X: 1, Y: 0}, result.GameState.Player.Position)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("invalid direction", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/move", map[string]string{"direction": "north"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/move", "not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/zzzz/move", map[string]string{"direction": "up"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("history", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/sessions/"+id+"/history?order=asc&limit=5", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var history service.HistoryResponse
		decode(t, rr, &history)
		assert.Equal(t, 1, history.TotalMoves)
		require.Len(t, history.Moves, 1)
		assert.Equal(t, engine.Position{X: 1, Y: 0}, history.Moves[0].ToPosition)
		assert.Equal(t, 5, history.PageSize)
	})

	t.Run("bulk move stops at the board edge", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/bulk-move", map[string]interface{}{
			"moves": []string{"left", "left", "right"},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var result service.BulkMoveResult
		decode(t, rr, &result)
		assert.Equal(t, 3, result.RequestedMoves)
		assert.Equal(t, 2, result.MovesExecuted)
		assert.Equal(t, 2, result.StoppedOnMove)
		assert.Equal(t, engine.OutcomeOutOfBounds, result.StopReasonCode)
		assert.Equal(t, engine.Position{X: 0, Y: 0}, result.EndPos)
	})

	t.Run("bulk move with a bad direction", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/bulk-move", map[string]interface{}{
			"moves": []string{"left", "jump"},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("reset", func(t *testing.T) {
		doRequest(t, s, "POST", "/api/sessions/"+id+"/move", map[string]string{"direction": "right"})

		rr := doRequest(t, s, "POST", "/api/sessions/"+id+"/reset", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Message string            `json:"message"`
			State   *engine.GameState `json:"state"`
		}
		decode(t, rr, &resp)
		assert.Equal(t, engine.Position{X: 0, Y: 0}, resp.State.Player.Position)
	})

	t.Run("state", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/sessions/"+id+"/state", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var state engine.GameState
		decode(t, rr, &state)
		assert.Equal(t, 5, state.Width)
		require.Len(t, state.Logs, 1)
		assert.Equal(t, engine.Position{X: 2, Y: 0}, state.Logs[0].Position)
		assert.Equal(t, engine.Round, state.Logs[0].Orientation)
	})
}

func TestFrameAndCellEndpoints(t *testing.T) {
	s, _ := setupServer(t, nil)
	id := createSession(t, s)

	rr := doRequest(t, s, "GET", "/api/sessions/"+id+"/frame", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var frame view.Frame
	decode(t, rr, &frame)
	assert.Equal(t, id, frame.SessionID)
	assert.Equal(t, 5, frame.Width)
	assert.Equal(t, 1, frame.Height)
	require.Len(t, frame.Logs, 1)
	assert.Equal(t, view.DefaultPalette(), frame.Palette)

	rr = doRequest(t, s, "GET", "/api/sessions/"+id+"/cells/2/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var cell service.CellInfo
	decode(t, rr, &cell)
	assert.True(t, cell.InBounds)
	assert.Equal(t, []string{"land", "stump"}, cell.Markers)
	assert.NotNil(t, cell.Log)
	assert.False(t, cell.Player)

	rr = doRequest(t, s, "GET", "/api/sessions/"+id+"/cells/-1/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	cell = service.CellInfo{}
	decode(t, rr, &cell)
	assert.False(t, cell.InBounds)

	rr = doRequest(t, s, "GET", "/api/sessions/"+id+"/cells/a/0", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "non-numeric coordinates do not match the route")

	rr = doRequest(t, s, "GET", "/api/sessions/nope/frame", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestConfigEndpoints(t *testing.T) {
	s, _ := setupServer(t, nil)

	t.Run("list", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/configs", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var configs []*service.ConfigInfo
		decode(t, rr, &configs)
		require.Len(t, configs, 1)
		assert.Equal(t, "strip", configs[0].ConfigID)
		assert.Equal(t, 1, configs[0].Logs)
	})

	t.Run("get", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/configs/strip.json", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var level engine.LevelConfig
		decode(t, rr, &level)
		assert.Equal(t, "Strip", level.Name)

		rr = doRequest(t, s, "GET", "/api/configs/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("save", func(t *testing.T) {
		level := stripLevel()
		level.Name = "Copy"
		level.Legend = nil
		rr := doRequest(t, s, "POST", "/api/configs", map[string]interface{}{
			"config_id": "copy",
			"config":    level,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		rr = doRequest(t, s, "POST", "/api/sessions", map[string]string{"config_id": "copy"})
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("save invalid", func(t *testing.T) {
		level := stripLevel()
		level.Start = engine.Position{X: 4, Y: 0}
		rr := doRequest(t, s, "POST", "/api/configs", map[string]interface{}{
			"config_id": "broken",
			"config":    level,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = doRequest(t, s, "POST", "/api/configs", map[string]interface{}{"config_id": "empty"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = doRequest(t, s, "POST", "/api/configs", "{{")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrSessionNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrConfigNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(engine.ErrInvalidDirection))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.ErrInvalidConfig))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestWebSocketWithoutHub(t *testing.T) {
	s, _ := setupServer(t, nil)
	id := createSession(t, s)
	rr := doRequest(t, s, "GET", "/api/sessions/"+id+"/ws", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// readFrame reads messages until one carries a frame matching want
func readFrame(t *testing.T, conn *gorillaws.Conn, want func(*view.Frame) bool) *view.Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg websocket.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Event == websocket.EventFrame && msg.Frame != nil && want(msg.Frame) {
			return msg.Frame
		}
	}
	t.Fatal("no matching frame received")
	return nil
}

func TestWebSocketStream(t *testing.T) {
	hub := websocket.NewHub()
	s, svc := setupServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	go service.RunFrameLoop(ctx, svc, 10*time.Millisecond, hub)

	server := httptest.NewServer(s)
	defer server.Close()
	id := createSession(t, s)
	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")

	t.Run("unknown session", func(t *testing.T) {
		_, resp, err := gorillaws.DefaultDialer.Dial(wsBase+"/api/sessions/nope/ws", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	conn, _, err := gorillaws.DefaultDialer.Dial(wsBase+"/api/sessions/"+id+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn, func(*view.Frame) bool { return true })
	assert.Equal(t, engine.Position{X: 0, Y: 0}, first.Player.Cell)

	require.NoError(t, conn.WriteJSON(websocket.ClientMessage{Type: "move", Direction: "right"}))
	settled := readFrame(t, conn, func(f *view.Frame) bool {
		return f.Player.Cell == engine.Position{X: 1, Y: 0} && !f.Animating
	})
	assert.InDelta(t, 1.0, settled.Player.X, 1e-9)

	require.NoError(t, conn.WriteJSON(websocket.ClientMessage{Type: "dance"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg websocket.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Event == websocket.EventError {
			assert.Contains(t, msg.Data, "unknown message type")
			break
		}
	}

	require.NoError(t, conn.WriteJSON(websocket.ClientMessage{Type: "reset"}))
	readFrame(t, conn, func(f *view.Frame) bool {
		return f.Player.Cell == engine.Position{X: 0, Y: 0}
	})
}
