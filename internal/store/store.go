// Package store owns the in-memory list collection and keeps a durable
// snapshot of it in a kv.Store.
//
// Every mutation swaps in a new collection, then queues the whole collection
// for a single writer goroutine. Writes therefore reach the backend in the
// order the mutations happened, and the last durable snapshot always matches
// the latest in-memory state once the queue drains.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/snapshot"
)

// DefaultKey is the single slot the collection lives in.
const DefaultKey = "todoLists"

// corruptSuffix is appended to the key when an unreadable snapshot is set aside.
const corruptSuffix = ".corrupt"

var ErrClosed = errors.New("store closed")

// ErrUnavailable marks a store whose snapshot could not be read. It serves
// an empty collection and refuses every mutation so the saved data is never
// overwritten.
var ErrUnavailable = errors.New("snapshot unavailable")

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQueueSize bounds the number of snapshots waiting for the writer.
// Mutators block once it is full.
func WithQueueSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithRetries sets how many times a failed write is retried, with exponential
// backoff starting at delay.
func WithRetries(n int, delay time.Duration) Option {
	return func(s *Store) {
		if n >= 0 {
			s.retries = n
		}
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

type Store struct {
	kv         kv.Store
	key        string
	logger     *log.Logger
	queueSize  int
	retries    int
	retryDelay time.Duration

	hydrated   chan struct{}
	readErr    error
	queue      chan *Write
	writerDone chan struct{}

	mu      sync.Mutex
	lists   []model.List
	seq     uint64
	last    *Write
	closed  bool
	subs    map[int]chan []model.List
	nextSub int
}

// New starts hydration from backend and the writer goroutine. ctx only bounds
// the hydration read.
func New(ctx context.Context, backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:         backend,
		key:        DefaultKey,
		logger:     log.New(io.Discard),
		queueSize:  64,
		retries:    3,
		retryDelay: 50 * time.Millisecond,
		hydrated:   make(chan struct{}),
		writerDone: make(chan struct{}),
		lists:      []model.List{},
		subs:       map[int]chan []model.List{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = make(chan *Write, s.queueSize)

	go s.runWriter()
	go s.hydrate(ctx)
	return s
}

// Hydrated is closed once the persisted snapshot has been read, found
// missing or found unreadable, or once the read itself has failed.
func (s *Store) Hydrated() <-chan struct{} { return s.hydrated }

// WaitHydrated blocks until hydration is over or ctx ends. It reports the
// read error, wrapped in ErrUnavailable, when the snapshot could not be read.
func (s *Store) WaitHydrated(ctx context.Context) error {
	select {
	case <-s.hydrated:
		return s.readErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) hydrate(ctx context.Context) {
	lists := []model.List{}
	var readErr error
	blob, ok, err := s.kv.Get(ctx, s.key)
	switch {
	case err != nil:
		readErr = fmt.Errorf("%w: read %s: %w", ErrUnavailable, s.key, err)
		s.logger.Error("read snapshot; refusing writes", "key", s.key, "err", err)
	case !ok:
		s.logger.Debug("no snapshot; starting empty", "key", s.key)
	default:
		decoded, err := snapshot.Decode(blob)
		if err != nil {
			s.logger.Error("unreadable snapshot; starting empty", "key", s.key, "err", err)
			s.setAside(ctx, blob)
			break
		}
		lists = decoded
		s.logger.Debug("hydrated", "key", s.key, "lists", len(lists))
	}

	s.mu.Lock()
	s.lists = lists
	s.readErr = readErr
	// Closed under the lock so Subscribe sees either the old phase or the
	// hydrated collection, never a gap between them.
	close(s.hydrated)
	s.notifyLocked()
	s.mu.Unlock()
}

// setAside keeps a copy of a snapshot that failed to decode so the next
// write does not destroy it.
func (s *Store) setAside(ctx context.Context, blob []byte) {
	key := s.key + corruptSuffix
	if err := s.kv.Set(ctx, key, blob); err != nil {
		s.logger.Error("set aside unreadable snapshot", "key", key, "err", err)
		return
	}
	s.logger.Warn("unreadable snapshot set aside", "key", key, "bytes", len(blob))
}

// Lists returns a copy of the current collection. Before hydration completes
// it is empty.
func (s *Store) Lists() []model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneLists(s.lists)
}

// List returns a copy of the list with the given id.
func (s *Store) List(id string) (model.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return model.List{}, false
}

// AddList appends l. No duplicate-id check is made.
func (s *Store) AddList(l model.List) *Write {
	return s.mutate("add list", func(cur []model.List) ([]model.List, bool) {
		return addList(cur, l)
	})
}

// UpdateList renames the list with the given id. Unknown ids are ignored.
func (s *Store) UpdateList(id, title string) *Write {
	return s.mutate("update list", func(cur []model.List) ([]model.List, bool) {
		return updateList(cur, id, title)
	})
}

// DeleteList removes the list with the given id and all its items.
func (s *Store) DeleteList(id string) *Write {
	return s.mutate("delete list", func(cur []model.List) ([]model.List, bool) {
		return deleteList(cur, id)
	})
}

// AddTodo appends it to the list with the given id.
func (s *Store) AddTodo(listID string, it model.Item) *Write {
	return s.mutate("add todo", func(cur []model.List) ([]model.List, bool) {
		return addTodo(cur, listID, it)
	})
}

// UpdateTodo retitles one item.
func (s *Store) UpdateTodo(listID, itemID, title string) *Write {
	return s.mutate("update todo", func(cur []model.List) ([]model.List, bool) {
		return updateTodo(cur, listID, itemID, title)
	})
}

// DeleteTodo removes one item.
func (s *Store) DeleteTodo(listID, itemID string) *Write {
	return s.mutate("delete todo", func(cur []model.List) ([]model.List, bool) {
		return deleteTodo(cur, listID, itemID)
	})
}

// mutate applies fn after hydration and queues the resulting snapshot.
// Unmatched ids still produce a write of the unchanged collection.
func (s *Store) mutate(op string, fn func([]model.List) ([]model.List, bool)) *Write {
	<-s.hydrated

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return failedWrite(ErrClosed)
	}
	if s.readErr != nil {
		return failedWrite(fmt.Errorf("%s: %w", op, s.readErr))
	}

	next, matched := fn(s.lists)
	if !matched {
		s.logger.Debug("no matching id", "op", op)
	}
	blob, err := snapshot.Encode(next)
	if err != nil {
		s.logger.Error("encode snapshot", "op", op, "err", err)
		return failedWrite(fmt.Errorf("%s: %w", op, err))
	}
	s.lists = next

	s.seq++
	w := newWrite(s.seq, blob)
	s.last = w
	// Sending under the lock keeps queue order equal to mutation order.
	s.queue <- w
	s.notifyLocked()
	return w
}

func (s *Store) runWriter() {
	defer close(s.writerDone)
	for w := range s.queue {
		w.finish(s.persist(w))
	}
}

func (s *Store) persist(w *Write) error {
	ctx := context.Background()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryDelay
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := s.kv.Set(ctx, s.key, w.blob); err != nil {
			s.logger.Warn("write snapshot", "seq", w.seq, "attempt", attempt, "err", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(s.retries+1)))
	if err != nil {
		s.logger.Error("snapshot not persisted", "seq", w.seq, "attempts", attempt, "err", err)
		return fmt.Errorf("persist snapshot %d: %w", w.seq, err)
	}
	s.logger.Debug("snapshot persisted", "seq", w.seq, "bytes", len(w.blob))
	return nil
}

// Flush waits for every write queued so far and returns the error of the
// most recent one.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	w := s.last
	s.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Wait(ctx)
}

// Subscribe returns a channel that receives the collection after hydration
// and after every mutation. Only the newest unread collection is kept.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan []model.List, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []model.List, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	select {
	case <-s.hydrated:
		ch <- model.CloneLists(s.lists)
	default:
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		// Drop a stale value so the send below never blocks.
		select {
		case <-ch:
		default:
		}
		ch <- model.CloneLists(s.lists)
	}
}

// Close drains queued writes, stops the writer and closes the backend.
// Mutations after Close return a Write failing with ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	select {
	case <-s.hydrated:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	select {
	case <-s.writerDone:
	case <-ctx.Done():
		return fmt.Errorf("drain writes: %w", ctx.Err())
	}
	if err := s.kv.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}
