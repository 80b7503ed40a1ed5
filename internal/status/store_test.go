// internal/status/store_test.go
package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestStoreDefault(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Empty(), s.Read())
}

func TestStorePublishReplacesWholesale(t *testing.T) {
	s := NewStore()

	first := Snapshot{
		Flows:   FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: true}},
		Success: true,
		Date:    "2026-08-29 10:00:00",
	}
	s.Publish(first)
	assert.Equal(t, first, s.Read())

	second := Snapshot{
		Flows:   FlowResults{{Name: "login", OK: false}, {Name: "debit", OK: false}},
		Success: false,
		Error:   "LOGIN: Could not submit login form; ",
		Date:    "2026-08-29 10:10:00",
	}
	s.Publish(second)
	assert.Equal(t, second, s.Read())
}

func TestStoreConcurrentReaders(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewStore()
	s.Publish(Snapshot{
		Flows:   FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: true}},
		Success: true,
	})
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := s.Read()
				// Readers must always observe a complete snapshot: flow
				// results and the success flag never disagree.
				assert.Equal(t, snap.Flows.AllOK(), snap.Success)
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		ok := i%2 == 0
		s.Publish(Snapshot{
			Flows:   FlowResults{{Name: "login", OK: ok}, {Name: "debit", OK: ok}},
			Success: ok,
		})
	}

	close(done)
	wg.Wait()
}
