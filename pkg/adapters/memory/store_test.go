package memory_test

import (
	"testing"

	"github.com/remaclabs/remac/pkg/adapters/memory"
	"github.com/remaclabs/remac/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunRecordingStoreContract(t, store)
}
