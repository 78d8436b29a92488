package session

import (
	"time"

	"github.com/gofiber/storage/memory/v2"
)

const memoryGCInterval = 10 * time.Second

// NewMemoryStorage returns a process-local session backend, used with the sqlite engine
// and in tests. Expired sessions are swept in the background and do not survive a restart.
func NewMemoryStorage() *memory.Storage {
	return memory.New(memory.Config{GCInterval: memoryGCInterval})
}
