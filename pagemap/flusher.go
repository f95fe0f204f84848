package pagemap

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flusher migrates page contents into an external batch, producing a
// checkpoint for each drained page. It carries the logger so the pure
// map primitives do not have to.
type Flusher struct {
	log *zap.Logger
}

// NewFlusher returns a Flusher logging to log; a nil log disables
// logging.
func NewFlusher(log *zap.Logger) *Flusher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flusher{log: log}
}

// Flush drains every live entry of m into b and returns the checkpoint
// pinning the drained state. The page is left untouched; the caller
// decides whether to recycle it.
func (f *Flusher) Flush(id uuid.UUID, m Map, b Batch) (Checkpoint, error) {
	if err := m.Apply(b); err != nil {
		f.log.Warn("page flush aborted",
			zap.String("page", id.String()),
			zap.Error(err),
		)
		return Checkpoint{}, err
	}
	c := NewCheckpoint(id, m)
	f.log.Debug("page flushed",
		zap.String("page", id.String()),
		zap.Int("entries", c.Entries),
		zap.Int("free", c.Free),
	)
	return c, nil
}
