// Package playback delivers the fire-and-forget side effect of activating a
// preset. Activations coalesce: while one is being delivered, newer ones
// replace each other and only the latest is ever sent.
package playback

import (
	"log"
	"sync"

	"github.com/matst80/preset-finder/pkg/types"
)

// Sink receives the activation for the most recently selected preset.
type Sink interface {
	Play(p *types.Preset)
}

// Queue is a single-slot activation queue. Enqueueing overwrites any
// activation that has not been picked up yet; a superseded activation is
// never delivered.
type Queue struct {
	mu      sync.Mutex
	pending *types.Preset
	wake    chan struct{}
	done    chan struct{}
	sinks   []Sink
}

func NewQueue(sinks ...Sink) *Queue {
	q := &Queue{
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		sinks: sinks,
	}
	go q.run()
	return q
}

// Activate schedules the preset as the authoritative activation.
func (q *Queue) Activate(p *types.Preset) {
	q.mu.Lock()
	q.pending = p
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) Close() {
	close(q.done)
}

func (q *Queue) run() {
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}
		q.mu.Lock()
		p := q.pending
		q.pending = nil
		q.mu.Unlock()
		if p == nil {
			continue
		}
		for _, s := range q.sinks {
			s.Play(p)
		}
	}
}

// LogSink logs activations, the default when no other sink is wired.
type LogSink struct{}

func (LogSink) Play(p *types.Preset) {
	log.Printf("activated preset %d (%s by %s)", p.Id, p.Name, p.Vendor)
}
