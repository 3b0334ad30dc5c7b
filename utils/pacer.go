package utils

import (
	"math/rand"
	"time"
)

// Pacer inserts randomized delays between requests so traffic looks
// human-paced rather than machine-generated. All waits block the calling
// goroutine; the whole run is intentionally sequential.
type Pacer struct {
	logger *Logger
}

// NewPacer creates a Pacer with the given logger.
func NewPacer(logger *Logger) *Pacer {
	return &Pacer{logger: logger}
}

// Pause sleeps for a random duration between minMs and maxMs milliseconds.
func (p *Pacer) Pause(minMs, maxMs int) {
	if maxMs <= 0 {
		return
	}
	if maxMs < minMs {
		maxMs = minMs
	}
	d := time.Duration(minMs)*time.Millisecond +
		time.Duration(rand.Int63n(int64(maxMs-minMs+1)))*time.Millisecond
	p.logger.Debug("[pacer] Waiting %.2fs...", d.Seconds())
	time.Sleep(d)
}
