package source

import (
	"sync"

	"tableflip.dev/widgets/pkg/optsync"
)

// Resolver looks up option sources by ID.
type Resolver interface {
	Resolve(id string) (optsync.Source, bool)
}

// Directory is a Resolver over registered sources.
type Directory struct {
	mu      sync.RWMutex
	sources map[string]optsync.Source
}

// NewDirectory returns a directory holding srcs.
func NewDirectory(srcs ...optsync.Source) *Directory {
	d := &Directory{sources: make(map[string]optsync.Source, len(srcs))}
	for _, s := range srcs {
		d.Add(s)
	}
	return d
}

// Add registers src under its ID, replacing any previous source.
func (d *Directory) Add(src optsync.Source) {
	if src == nil {
		return
	}
	d.mu.Lock()
	d.sources[src.ID()] = src
	d.mu.Unlock()
}

// Remove forgets the source registered under id.
func (d *Directory) Remove(id string) {
	d.mu.Lock()
	delete(d.sources, id)
	d.mu.Unlock()
}

// Resolve implements Resolver.
func (d *Directory) Resolve(id string) (optsync.Source, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sources[id]
	return s, ok
}
