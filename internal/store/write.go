package store

import "context"

// Write tracks one queued snapshot. The in-memory change it belongs to is
// already visible when the Write is returned; Wait reports durability.
type Write struct {
	seq  uint64
	blob []byte
	done chan struct{}
	err  error
}

func newWrite(seq uint64, blob []byte) *Write {
	return &Write{seq: seq, blob: blob, done: make(chan struct{})}
}

func failedWrite(err error) *Write {
	w := newWrite(0, nil)
	w.finish(err)
	return w
}

func (w *Write) finish(err error) {
	w.err = err
	close(w.done)
}

// Seq is the write's position in issuance order, starting at 1.
// Writes that were never queued report 0.
func (w *Write) Seq() uint64 { return w.seq }

// Done is closed once the write has completed or failed.
func (w *Write) Done() <-chan struct{} { return w.done }

// Err returns the write's result. It is nil until Done is closed.
func (w *Write) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the snapshot is durable, the write has failed, or ctx ends.
func (w *Write) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
