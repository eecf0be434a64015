package rtp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceCounterStartsAtOne(t *testing.T) {
	var c SequenceCounter
	assert.Equal(t, uint16(1), c.Next())
	assert.Equal(t, uint16(2), c.Next())
	assert.Equal(t, uint16(2), c.Current())
}

func TestSequenceCounterWraps(t *testing.T) {
	c := SequenceCounter{value: 0xFFFF}
	assert.Equal(t, uint16(0), c.Next())
}

func TestSequenceCounterConcurrentNextNeverRepeats(t *testing.T) {
	var c SequenceCounter
	const goroutines, perGoroutine = 8, 100

	seen := make(chan uint16, goroutines*perGoroutine)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seen <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint16]bool)
	for v := range seen {
		assert.False(t, unique[v], "sequence number %d handed out twice", v)
		unique[v] = true
	}
	assert.Len(t, unique, goroutines*perGoroutine)
}
