package memory

import (
	"testing"

	"github.com/talentdesk/ctc-calculator/internal/store"
	"github.com/talentdesk/ctc-calculator/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := New()
		t.Cleanup(func() { s.Close() })
		return s
	})
}
