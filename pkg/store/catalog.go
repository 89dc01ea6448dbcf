package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

var (
	// ErrNotFound is returned when an option key is not in its source.
	ErrNotFound = errors.New("store: option not found")
	// ErrExists is returned when an option key is already taken.
	ErrExists = errors.New("store: option already exists")
)

// Config locates the catalog on disk.
type Config interface {
	BasePath() string
}

// Option is one persisted option. ID is stable across relabels so watchers
// can tell a key change apart from a remove followed by an add.
type Option struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Key    string `json:"key"`
	Label  string `json:"label,omitempty"`
	Seq    int64  `json:"seq"`
}

// Catalog persists option sources.
type Catalog interface {
	Sources(ctx context.Context) []string
	List(ctx context.Context, source string) []Option
	Add(source, key, label string) (Option, error)
	Remove(source, key string) error
	Relabel(source, oldKey, key, label string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Catalog backed by diskv rooted at cfg.BasePath().
func Load(cfg Config) (Catalog, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := strings.TrimSpace(cfg.BasePath())
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &catalog{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type catalog struct {
	d        *diskv.Diskv
	basePath string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

func (c *catalog) read(key string) (Option, error) {
	val, err := c.d.Read(key)
	if err != nil {
		return Option{}, err
	}
	var o Option
	if err := json.Unmarshal(val, &o); err != nil {
		return Option{}, err
	}
	pk := keyToPathTransform(key)
	o.ID = pk.FileName
	if o.Source == "" && len(pk.Path) > 0 {
		o.Source = fromSource(pk.Path[0])
	}
	return o, nil
}

func (c *catalog) write(o Option) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return c.d.Write(toKey(o), data)
}

func (c *catalog) Sources(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for key := range c.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 {
			continue
		}
		seen[fromSource(pk.Path[0])] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (c *catalog) List(ctx context.Context, source string) []Option {
	encoded := toSource(source)
	all := make([]Option, 0)
	for key := range c.d.KeysPrefix(encoded+"-", ctx.Done()) {
		o, err := c.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, o)
	}
	sortOptions(all)
	return all
}

func (c *catalog) find(source, key string) (Option, bool) {
	for _, o := range c.List(context.Background(), source) {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

func (c *catalog) Add(source, key, label string) (Option, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Option{}, errors.New("store: source required")
	}
	if key == "" {
		return Option{}, errors.New("store: key required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := time.Now().UnixNano()
	for _, o := range c.List(context.Background(), source) {
		if o.Key == key {
			return Option{}, fmt.Errorf("%w: %q in %q", ErrExists, key, source)
		}
		if o.Seq >= seq {
			seq = o.Seq + 1
		}
	}
	o := Option{Source: source, Key: key, Label: label, Seq: seq}
	o.ID = newID(o)
	if err := c.write(o); err != nil {
		return Option{}, fmt.Errorf("store: write option: %w", err)
	}
	return o, nil
}

func (c *catalog) Remove(source, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.find(source, key)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrNotFound, key, source)
	}
	return c.d.Erase(toKey(o))
}

func (c *catalog) Relabel(source, oldKey, key, label string) error {
	if key == "" {
		return errors.New("store: key required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.find(source, oldKey)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrNotFound, oldKey, source)
	}
	if key != oldKey {
		if _, taken := c.find(source, key); taken {
			return fmt.Errorf("%w: %q in %q", ErrExists, key, source)
		}
	}
	o.Key = key
	o.Label = label
	if err := c.write(o); err != nil {
		return fmt.Errorf("store: write option: %w", err)
	}
	return nil
}

func sortOptions(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].Seq == opts[j].Seq {
			return opts[i].ID < opts[j].ID
		}
		return opts[i].Seq < opts[j].Seq
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `source-id`
func toKey(o Option) string {
	return fmt.Sprintf("%s-%s", toSource(o.Source), o.ID)
}

func newID(o Option) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s\x00%s\x00%d", o.Source, o.Key, o.Seq)))
	return hex.EncodeToString(sum[:8])
}

func toSource(s string) string {
	return hex.EncodeToString([]byte(s))
}

func fromSource(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromSource: %s", err)
	}
	return string(b)
}
