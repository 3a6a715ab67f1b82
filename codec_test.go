package nstree

import (
	"reflect"
	"testing"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	mirror := map[string]any{
		"s":   "str",
		"n":   float64(4.5),
		"b":   true,
		"nil": nil,
		"arr": []any{float64(1), "x"},
		"obj": map[string]any{"k": float64(2)},
	}
	raw := must(JSONCodec.Marshal(mirror))
	got := must(JSONCodec.Unmarshal(raw))
	if !reflect.DeepEqual(got, mirror) {
		t.Fatalf("round trip = %#v, wanted %#v", got, mirror)
	}
}

func TestJSONCodecNull(t *testing.T) {
	got := must(JSONCodec.Unmarshal([]byte("null")))
	if got != nil {
		t.Fatalf("Unmarshal(null) = %#v, wanted nil", got)
	}
	if _, err := JSONCodec.Unmarshal([]byte(`[1,2]`)); err == nil {
		t.Fatalf("Unmarshal(array) succeeded, wanted error")
	}
}

// Msgpack decodes integers as ints rather than float64; the registry's
// canonicalization pass has to smooth that over, so test through a registry.
func TestMsgpackCodecThroughRegistry(t *testing.T) {
	backend := NewMemBackend()
	reg := New(Options{Backend: backend, Codec: MsgpackCodec})
	ns := must(reg.Namespace("cfg"))
	ensure(ns.Set("n", 42))
	ensure(ns.Set("obj", map[string]any{"deep": map[string]any{"s": "x"}}))
	reg.Close()

	reg2 := New(Options{Backend: backend, Codec: MsgpackCodec})
	defer reg2.Close()
	ns2 := must(reg2.Namespace("cfg"))
	want := map[string]any{
		"n":   float64(42),
		"obj": map[string]any{"deep": map[string]any{"s": "x"}},
	}
	if got := ns2.All(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded mirror = %#v, wanted %#v", got, want)
	}
	if ns2.Child("obj").Child("deep") == nil {
		t.Fatalf("msgpack-reloaded tree is missing nested child nodes")
	}

	// The stored entry is not JSON.
	raw, ok, err := backend.Get("cfg")
	if err != nil || !ok {
		t.Fatalf("stored entry: ok=%v err=%v", ok, err)
	}
	if _, err := JSONCodec.Unmarshal(raw); err == nil {
		t.Fatalf("msgpack entry unexpectedly parses as JSON")
	}
}
