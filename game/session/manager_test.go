package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/service"
)

func createTestConfig() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "Test Level",
		Description: "Test level",
		Layers: [][]string{
			{"#### ", "#####"},
			{"..@..", "....%"},
		},
		Legend: engine.DefaultLegend(),
		Start:  engine.Position{X: 0, Y: 0},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", config)
		require.NoError(t, err)
		assert.Equal(t, "test-session", session.ID)
		assert.Equal(t, "test", session.ConfigID)
		require.NotNil(t, session.Engine)
		assert.Equal(t, 1, session.Engine.Registry().LogCount())
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config)
		require.NoError(t, err)
		assert.Len(t, session.ID, 4)
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", config)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("a/b", "test", config)
		assert.ErrorIs(t, err, ErrInvalidSessionID)
	})

	t.Run("invalid level", func(t *testing.T) {
		bad := createTestConfig()
		bad.Start = engine.Position{X: 4, Y: 0}
		_, err := manager.Create("bad", "test", bad)
		assert.Error(t, err)
	})

	assert.Equal(t, 2, manager.Count())
}

func TestManager_GetAndDelete(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("Abc1", "test", createTestConfig())
	require.NoError(t, err)

	got, err := manager.Get("abc1")
	require.NoError(t, err)
	assert.Same(t, created, got)

	_, err = manager.Get("missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	require.NoError(t, manager.Delete("ABC1"))
	assert.ErrorIs(t, manager.Delete("abc1"), service.ErrSessionNotFound)
	assert.Equal(t, 0, manager.Count())
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	first, err := manager.GetOrCreate("s1", "test", createTestConfig())
	require.NoError(t, err)
	second, err := manager.GetOrCreate("s1", "test", createTestConfig())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestManager_ListOldestFirst(t *testing.T) {
	manager := NewManager()
	for _, id := range []string{"c", "a", "b"} {
		_, err := manager.Create(id, "test", createTestConfig())
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	var ids []string
	for _, s := range manager.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, err := manager.Create("old", "test", createTestConfig())
	require.NoError(t, err)
	_, err = manager.Create("fresh", "test", createTestConfig())
	require.NoError(t, err)

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, manager.UpdateLastAccessed("fresh"))

	assert.Equal(t, 1, manager.CleanupExpiredSessions(time.Hour))
	_, err = manager.Get("old")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = manager.Get("fresh")
	assert.NoError(t, err)

	assert.ErrorIs(t, manager.UpdateLastAccessed("old"), service.ErrSessionNotFound)
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := manager.Create(fmt.Sprintf("s%d", i), "test", config)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, manager.Count())
}
