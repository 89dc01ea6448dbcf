package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType tells a watcher which listings went stale.
type EventType int

const (
	// EventSourceChanged means a file under one source's directory changed.
	EventSourceChanged EventType = iota

	// EventSourcesInvalidated means some change could not be tied to a
	// source, so every listing is stale.
	EventSourcesInvalidated
)

// Event names a stale listing.
type Event struct {
	Type   EventType
	Source string
}

// watchDelay is how long a burst of writes is collected before it is
// reported. One option write can touch several files.
const watchDelay = 100 * time.Millisecond

// Watch reports stale source listings until ctx is done, then closes the
// channel. Events are coalesced per burst. When the reader falls behind,
// events are dropped; a later Source.Refresh still sees every change
// because it diffs whole listings.
func (p *catalog) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", p.basePath, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: new watcher: %w", err)
	}
	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher(fw)
		return nil, fmt.Errorf("store: list directories: %w", err)
	}
	w := &dirWatcher{
		catalog: p,
		fw:      fw,
		dirs:    make(map[string]struct{}, len(dirs)),
		pending: newBurst(),
		out:     make(chan Event, 64),
	}
	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			closeWatcher(fw)
			return nil, err
		}
	}

	go w.run(ctx)
	return w.out, nil
}

// dirWatcher is owned by a single goroutine. Only run sends on out, and it
// closes out on return, so no send can follow the close.
type dirWatcher struct {
	catalog *catalog
	fw      *fsnotify.Watcher
	dirs    map[string]struct{}
	pending *burst
	out     chan Event
}

func (w *dirWatcher) run(ctx context.Context) {
	defer close(w.out)
	defer closeWatcher(w.fw)

	var timer *time.Timer
	var due <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	mark := func(ev Event) {
		w.pending.add(ev)
		if timer == nil {
			timer = time.NewTimer(watchDelay)
			due = timer.C
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-due:
			timer, due = nil, nil
			for _, ev := range w.pending.take() {
				select {
				case w.out <- ev:
				default:
				}
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "store: watcher: %v\n", err)
			mark(Event{Type: EventSourcesInvalidated})
		case fe, ok := <-w.fw.Events:
			if !ok {
				return
			}
			mark(w.classify(fe))
		}
	}
}

// classify maps a filesystem event to the listing it invalidates. New
// directories are watched too so the first option of a new source is seen.
func (w *dirWatcher) classify(fe fsnotify.Event) Event {
	path := filepath.Clean(fe.Name)
	if fe.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.add(path); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}
	if src := w.catalog.sourceForPath(path); src != "" {
		return Event{Type: EventSourceChanged, Source: src}
	}
	return Event{Type: EventSourcesInvalidated}
}

func (w *dirWatcher) add(dir string) error {
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("store: watch %s: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func closeWatcher(fw *fsnotify.Watcher) {
	if err := fw.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "store: close watcher: %v\n", err)
	}
}

// collectDirs returns base and every directory below it.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case d.IsDir() && path != base:
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// sourceForPath reverses keyToPath: the first directory below the base
// path is the hex encoded source ID.
func (p *catalog) sourceForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	first := strings.Split(rel, string(os.PathSeparator))[0]
	if first == "" || strings.HasPrefix(first, ".") {
		return ""
	}
	b, err := hex.DecodeString(first)
	if err != nil {
		return ""
	}
	return string(b)
}

// burst collects the events of one quiet period.
type burst struct {
	all     bool
	sources map[string]struct{}
	order   []string
}

func newBurst() *burst {
	return &burst{sources: make(map[string]struct{})}
}

func (b *burst) add(ev Event) {
	if ev.Type == EventSourcesInvalidated {
		b.all = true
		return
	}
	if _, ok := b.sources[ev.Source]; ok {
		return
	}
	b.sources[ev.Source] = struct{}{}
	b.order = append(b.order, ev.Source)
}

// take empties the burst. An invalidation absorbs every per-source event.
func (b *burst) take() []Event {
	var out []Event
	if b.all {
		out = []Event{{Type: EventSourcesInvalidated}}
	} else {
		for _, src := range b.order {
			out = append(out, Event{Type: EventSourceChanged, Source: src})
		}
	}
	*b = *newBurst()
	return out
}
