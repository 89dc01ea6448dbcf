package store

import (
	"context"
	"errors"
	"testing"
)

func newCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func keysOf(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Key)
	}
	return out
}

func TestCatalogAddListInInsertionOrder(t *testing.T) {
	c := newCatalog(t)
	for _, k := range []string{"Cherry", "Apple", "Banana"} {
		if _, err := c.Add("fruit", k, k); err != nil {
			t.Fatalf("add %s: %v", k, err)
		}
	}
	if _, err := c.Add("veg", "Leek", ""); err != nil {
		t.Fatalf("add Leek: %v", err)
	}

	got := keysOf(c.List(context.Background(), "fruit"))
	want := []string{"Cherry", "Apple", "Banana"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List = %v, want %v", got, want)
		}
	}

	sources := c.Sources(context.Background())
	if len(sources) != 2 || sources[0] != "fruit" || sources[1] != "veg" {
		t.Fatalf("Sources = %v", sources)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	c := newCatalog(t)
	if _, err := c.Add("fruit", "Apple", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.Add("fruit", "Apple", ""); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate add err = %v", err)
	}
	if _, err := c.Add("fruit", "Banana", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Relabel("fruit", "Banana", "Apple", "Apple"); !errors.Is(err, ErrExists) {
		t.Fatalf("relabel onto existing key err = %v", err)
	}
}

func TestCatalogRelabelKeepsID(t *testing.T) {
	c := newCatalog(t)
	o, err := c.Add("letters", "A", "A")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Relabel("letters", "A", "A2", "A2"); err != nil {
		t.Fatalf("relabel: %v", err)
	}
	opts := c.List(context.Background(), "letters")
	if len(opts) != 1 || opts[0].Key != "A2" || opts[0].ID != o.ID {
		t.Fatalf("after relabel = %+v, want A2 with id %s", opts, o.ID)
	}
}

func TestCatalogRemove(t *testing.T) {
	c := newCatalog(t)
	if _, err := c.Add("fruit", "Apple", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Remove("fruit", "Apple"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.Remove("fruit", "Apple"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
	if got := c.List(context.Background(), "fruit"); len(got) != 0 {
		t.Fatalf("List = %+v, want empty", got)
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(testConfig{}); err == nil {
		t.Fatalf("expected error for empty base path")
	}
}
