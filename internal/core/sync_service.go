package core

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// syncService implements SyncService over a PostRepository watch stream.
//
// The mirror is replaced wholesale on every store notification. There is no
// incremental merging, so readers can never observe a half-applied update.
// When the stream breaks, the last good snapshot keeps serving reads while a
// background loop reopens the subscription with exponential backoff.
type syncService struct {
	repo   db.PostRepository
	logger *zap.Logger

	// retryInitial and retryMax bound the reconnect backoff.
	retryInitial time.Duration
	retryMax     time.Duration

	mu        sync.RWMutex
	posts     []models.Post
	state     SyncState
	lastErr   error
	updatedAt time.Time

	subsMu  sync.Mutex
	subs    map[int]chan SyncUpdate
	nextSub int

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSyncService creates a SyncService mirroring the given repository.
func NewSyncService(repo db.PostRepository, logger *zap.Logger) SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &syncService{
		repo:         repo,
		logger:       logger,
		retryInitial: 500 * time.Millisecond,
		retryMax:     30 * time.Second,
		state:        SyncLoading,
		subs:         make(map[int]chan SyncUpdate),
		done:         make(chan struct{}),
	}
}

func (s *syncService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		go s.run(runCtx)
	})
}

func (s *syncService) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			// Never started.
			close(s.done)
			return
		}
		s.cancel()
		<-s.done
	})
}

// run owns the subscription lifecycle: open a watcher, drain it until it
// fails, back off, reopen. It exits only when ctx is cancelled.
func (s *syncService) run(ctx context.Context) {
	defer close(s.done)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInitial
	bo.MaxInterval = s.retryMax
	bo.MaxElapsedTime = 0 // retry until torn down

	for {
		watcher := s.repo.Watch(ctx)
		err := s.consume(ctx, watcher, bo)
		watcher.Stop()
		if ctx.Err() != nil {
			return
		}

		s.setDegraded(err)
		wait := bo.NextBackOff()
		s.logger.Warn("post subscription broken, retrying",
			zap.Error(err),
			zap.Duration("retryIn", wait))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// consume applies snapshots from one watcher until it fails. Each applied
// snapshot resets the backoff so a healthy stream always reconnects fast.
func (s *syncService) consume(ctx context.Context, watcher db.PostWatcher, bo *backoff.ExponentialBackOff) error {
	for {
		posts, err := watcher.Next()
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.apply(posts)
		bo.Reset()
	}
}

// apply atomically replaces the mirror and fans the update out.
func (s *syncService) apply(posts []models.Post) {
	s.mu.Lock()
	s.posts = posts
	s.state = SyncLive
	s.lastErr = nil
	s.updatedAt = time.Now()
	meta := s.metaLocked()
	s.mu.Unlock()

	s.publish(SyncUpdate{Posts: posts, Meta: meta})
}

// setDegraded flags the mirror as stale without touching its contents, then
// notifies subscribers so they can show the degraded state.
func (s *syncService) setDegraded(err error) {
	s.mu.Lock()
	s.state = SyncDegraded
	s.lastErr = err
	posts := s.posts
	meta := s.metaLocked()
	s.mu.Unlock()

	s.publish(SyncUpdate{Posts: posts, Meta: meta})
}

func (s *syncService) Snapshot() ([]models.Post, SyncMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts, s.metaLocked()
}

// metaLocked builds a SyncMeta from the current fields. Callers must hold mu.
func (s *syncService) metaLocked() SyncMeta {
	meta := SyncMeta{State: s.state}
	if !s.updatedAt.IsZero() {
		meta.UpdatedAt = s.updatedAt.UnixMilli()
	}
	if s.lastErr != nil {
		meta.LastError = s.lastErr.Error()
	}
	return meta
}

func (s *syncService) Subscribe() (<-chan SyncUpdate, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan SyncUpdate, 1)
	s.subs[id] = ch

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// publish delivers the update to every subscriber, latest-wins: when a
// subscriber's buffer is full, the stale update is dropped in favor of the
// new one.
func (s *syncService) publish(update SyncUpdate) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- update:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- update:
		default:
		}
	}
}
