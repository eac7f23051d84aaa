package session

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	config.Messages.Welcome = "Welcome!"
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.Engine.GetState().Seed == 0 {
			t.Error("Expected a fresh seed to be drawn")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config, 0)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config, 0)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.Name = ""
		_, err := manager.Create("invalid-test", invalidConfig, 0)
		if err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_CreateWithSeed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.Create("seed-a", config, 42)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	second, err := manager.Create("seed-b", config, 42)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if first.Engine.GetState().Seed != 42 {
		t.Errorf("Expected seed 42, got %d", first.Engine.GetState().Seed)
	}

	for _, dir := range []string{"left", "up", "right", "down"} {
		first.Engine.Move(dir)
		second.Engine.Move(dir)
	}
	if !first.Engine.GetState().Grid.Equal(second.Engine.GetState().Grid) {
		t.Error("Expected sessions with the same seed to play out identically")
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, _ := manager.Create("ab12", config, 0)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("ab12")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("AB12")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_CreateEntropyFailure(t *testing.T) {
	manager := NewManager()
	manager.entropy = iotest.ErrReader(errors.New("entropy exhausted"))

	session, err := manager.Create("", createTestConfig(), 1)
	if err == nil {
		t.Fatalf("Expected an error when id bytes cannot be read, got session %+v", session)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected no session to be stored, got %d", manager.Count())
	}

	// explicit ids need no entropy
	if _, err := manager.Create("given", createTestConfig(), 1); err != nil {
		t.Errorf("Expected explicit id to work without entropy, got %v", err)
	}
}

func TestManager_CreateSkipsTakenIDs(t *testing.T) {
	manager := NewManager()
	// the first draw collides with an existing session
	manager.entropy = bytes.NewReader([]byte{0xab, 0xcd, 0x12, 0x34})
	if _, err := manager.Create("abcd", createTestConfig(), 1); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	session, err := manager.Create("", createTestConfig(), 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.ID != "1234" {
		t.Errorf("Expected the next free id 1234, got %s", session.ID)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	manager.Create("delete-test", config, 0)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		err := manager.Delete("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config, 0)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err == nil {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	ids := []string{"list-1", "list-2", "list-3"}
	for _, id := range ids {
		if _, err := manager.Create(id, config, 0); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", config, 0)
	expired, _ := manager.Create("expired", config, 0)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session, _ := manager.Create("access-test", config, 0)
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := ""
			if n%2 == 0 {
				id = fmt.Sprintf("s-%03d", n)
			}
			session, err := manager.Create(id, config, int64(n+1))
			if err != nil {
				errs <- err
				return
			}
			if _, err := session.Engine.Move("left"); err != nil {
				errs <- err
			}
			manager.UpdateLastAccessed(session.ID)
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config, 7)
	session2, _ := manager.Create("iso-2", config, 7)

	for _, dir := range engine.Directions {
		session1.Engine.Move(string(dir))
	}

	if session2.Engine.GetState().TotalMoves != 0 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if session1.Engine.GetState().TotalMoves == 0 {
		t.Error("Expected session 1 to have moved")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 200; i++ {
		session, err := manager.Create("", config, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}
