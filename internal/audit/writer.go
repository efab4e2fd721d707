// Package audit persists conversation records off the reply path.
//
// Writes go through a buffered channel drained by a single worker goroutine,
// so a slow or failing durable store can never delay a webhook response.
// Loss is tolerated: a full queue drops the record with a warning, and the
// worker's retried insert swallows exhaustion the same way.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/pkg/models"
)

const writeTimeout = 15 * time.Second

// Writer is the non-blocking conversation logger.
type Writer struct {
	retrier *store.Retrier
	queue   chan models.ConversationRecord
	done    chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// NewWriter starts a writer draining into the given retrier. buffer is the
// queue depth; records beyond it are dropped rather than blocking callers.
func NewWriter(retrier *store.Retrier, buffer int) *Writer {
	if buffer <= 0 {
		buffer = 256
	}
	w := &Writer{
		retrier: retrier,
		queue:   make(chan models.ConversationRecord, buffer),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Record enqueues one exchange for persistence. Never blocks; records
// arriving after Close, or past a full queue, are dropped with a warning.
func (w *Writer) Record(rec models.ConversationRecord) {
	select {
	case <-w.closed:
		log.Warn().Str("session", rec.SessionID).Msg("Audit writer closed, dropping conversation record")
		return
	default:
	}

	select {
	case w.queue <- rec:
	default:
		log.Warn().
			Str("session", rec.SessionID).
			Str("platform", string(rec.Platform)).
			Msg("Audit queue full, dropping conversation record")
	}
}

// Close stops accepting records and drains what is already queued. Safe to
// call more than once.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.closed)
		close(w.queue)
	})
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for rec := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		w.retrier.Insert(ctx, store.TableConversations, rec)
		cancel()
	}
}
