package archive

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRecorderBuffer = 16
	saveTimeout           = 5 * time.Second
)

// Recorder saves records on a single background worker. Record never blocks:
// when the buffer is full the record is dropped and logged.
type Recorder struct {
	store  Store
	logger *zap.Logger
	ch     chan GameRecord

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
}

func NewRecorder(store Store, buffer int, logger *zap.Logger) *Recorder {
	if buffer <= 0 {
		buffer = defaultRecorderBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		store:  store,
		logger: logger,
		ch:     make(chan GameRecord, buffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := r.store.Save(ctx, rec)
		cancel()
		if err != nil {
			r.logger.Warn("archive_save_failed", zap.String("game_id", rec.ID), zap.Error(err))
			continue
		}
		r.logger.Info("archive_saved",
			zap.String("game_id", rec.ID),
			zap.String("kind", rec.Kind),
			zap.String("result", rec.Result),
			zap.Int("plies", len(rec.MovesUCI)),
		)
	}
}

// Record queues rec and reports whether it was accepted. A missing ID is filled in.
func (r *Recorder) Record(rec GameRecord) bool {
	if r == nil {
		return false
	}
	if rec.ID == "" {
		rec.ID = NewID()
	}
	rec.MovesUCI = append([]string(nil), rec.MovesUCI...)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	select {
	case r.ch <- rec:
		return true
	default:
		r.logger.Warn("archive_queue_full", zap.String("game_id", rec.ID))
		return false
	}
}

// Close drains queued records, then closes the store.
func (r *Recorder) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()
	})
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.store.Close()
}

func (r *Recorder) Store() Store { return r.store }
