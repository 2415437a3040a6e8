package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	p, err := OpenPebble(filepath.Join(dir, "pebble"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := OpenSQLite(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	res := map[string]Store{
		"memory": NewMemory(0),
		"pebble": p,
		"sqlite": s,
	}
	t.Cleanup(func() {
		for _, st := range res {
			st.Close()
		}
	})
	return res
}

func TestStores(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := st.Get("missing"); ok || err != nil {
				t.Fatalf("missing key: ok=%v err=%v", ok, err)
			}
			if err := st.Set("k", []byte("v1")); err != nil {
				t.Fatal(err)
			}
			if err := st.Set("k", []byte("v2")); err != nil {
				t.Fatal(err)
			}
			v, ok, err := st.Get("k")
			if err != nil || !ok || string(v) != "v2" {
				t.Fatalf("got %q %v %v", v, ok, err)
			}
			v[0] = 'x'
			again, _, _ := st.Get("k")
			if string(again) != "v2" {
				t.Errorf("store shares value memory")
			}
			if err := st.Set("empty", nil); err != nil {
				t.Fatal(err)
			}
			if v, ok, err := st.Get("empty"); err != nil || !ok || len(v) != 0 {
				t.Errorf("empty value: %q %v %v", v, ok, err)
			}
		})
	}
}

func TestPebbleReopen(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenPebble(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Set("tsd_data_1", []byte("a:1")); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	p, err = OpenPebble(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	v, ok, err := p.Get("tsd_data_1")
	if err != nil || !ok || string(v) != "a:1" {
		t.Errorf("got %q %v %v", v, ok, err)
	}
	if n := testutil.CollectAndCount(NewPebbleCollector(p)); n != 7 {
		t.Errorf("collected %d metrics", n)
	}
}

func TestMemoryEvicts(t *testing.T) {
	m := NewMemory(2)
	m.Set("a", []byte("1"))
	m.Set("b", []byte("2"))
	m.Get("a")
	m.Set("c", []byte("3"))
	if _, ok, _ := m.Get("b"); ok {
		t.Errorf("b should be evicted")
	}
	if _, ok, _ := m.Get("a"); !ok {
		t.Errorf("a should be kept")
	}
	m.Close()
	if err := m.Set("d", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("got %v", err)
	}
}
