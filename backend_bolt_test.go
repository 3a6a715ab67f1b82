package nstree

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestBoltBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nstree.db")
	backend := must(OpenBolt(path, BoltOptions{IsTesting: true}))

	if _, ok, err := backend.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok=%v err=%v, wanted absent", ok, err)
	}
	ensure(backend.Set("a", []byte(`{"x":1}`)))
	data, ok, err := backend.Get("a")
	if err != nil || !ok || string(data) != `{"x":1}` {
		t.Fatalf("Get(a) = %q ok=%v err=%v", data, ok, err)
	}
	ensure(backend.Remove("a"))
	if _, ok, _ := backend.Get("a"); ok {
		t.Fatalf("entry survived Remove")
	}
	ensure(backend.Remove("a")) // removing twice is fine
	ensure(backend.Close())
}

func TestBoltBackendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nstree.db")

	backend := must(OpenBolt(path, BoltOptions{IsTesting: true}))
	reg := New(Options{Backend: backend})
	ns := must(reg.Namespace("cfg"))
	ensure(ns.Set("theme", "dark"))
	ensure(ns.Set("window", map[string]any{"w": 800}))
	reg.Close()
	ensure(backend.Close())

	backend2 := must(OpenBolt(path, BoltOptions{IsTesting: true}))
	defer backend2.Close()
	reg2 := New(Options{Backend: backend2})
	defer reg2.Close()
	if !reg2.Available() {
		t.Fatalf("reopened bolt backend probes unavailable")
	}
	ns2 := must(reg2.Namespace("cfg"))
	want := map[string]any{"theme": "dark", "window": map[string]any{"w": float64(800)}}
	if got := ns2.All(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded mirror = %#v, wanted %#v", got, want)
	}
}
