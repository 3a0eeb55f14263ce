package fs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/scratchpad/pkg/core"
)

// watchDebounce coalesces the burst of events one atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Watch reports changes made to key by any process, including this one.
// An empty key watches every key in the directory. The channel is closed
// when ctx is cancelled or the watcher fails.
func (s *Storage) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	out := make(chan core.Event)
	runCtx, cancel := context.WithCancel(ctx)
	co := newCoalescer(runCtx, watchDebounce, out)

	s.setWatcherActive(true)
	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(out)
		defer co.stop()
		defer cancel()
		defer watcher.Close()
		defer s.setWatcherActive(false)

		return s.watchLoop(ctx, watcher, key, co)
	}, lifecycle.WithErrorHandler(s.reportWatchError))

	return out, nil
}

func (s *Storage) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, key string, co *coalescer) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			s.handleEvent(event, key, co)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.reportWatchError(wErr)
		}
	}
}

func (s *Storage) handleEvent(event fsnotify.Event, want string, co *coalescer) {
	key, ok := keyFor(event.Name)
	if !ok || (want != "" && key != want) {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return
	}

	s.config.Logger.Debug("storage event", "key", key, "op", event.Op.String())
	s.recordEvent()
	co.add(core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()})
}

func (s *Storage) reportWatchError(err error) {
	s.config.Logger.Error("watcher error", "path", s.Path, "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

// coalescer delivers only the last event per key within the window.
type coalescer struct {
	ctx    context.Context
	window time.Duration
	out    chan<- core.Event

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func newCoalescer(ctx context.Context, window time.Duration, out chan<- core.Event) *coalescer {
	return &coalescer{
		ctx:    ctx,
		window: window,
		out:    out,
		timers: make(map[string]*time.Timer),
	}
}

func (c *coalescer) add(e core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if t, ok := c.timers[e.Key]; ok {
		t.Stop()
	}
	c.timers[e.Key] = time.AfterFunc(c.window, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		delete(c.timers, e.Key)
		select {
		case c.out <- e:
		case <-c.ctx.Done():
		}
	})
}

// stop discards pending events. It must run after ctx is cancelled so a
// timer blocked on delivery releases the lock.
func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for k, t := range c.timers {
		t.Stop()
		delete(c.timers, k)
	}
}
