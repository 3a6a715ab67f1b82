package nstree

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes a namespace's entire mirror into the bytes stored under
// its key. Decoded values go through canonical cloning before use, so codecs
// may return any mix of Go numerics and typed containers.
type Codec interface {
	Marshal(data map[string]any) ([]byte, error)
	Unmarshal(raw []byte) (map[string]any, error)
}

// JSONCodec is the default codec. Persisted entries are plain JSON objects,
// readable by anything else that shares the store.
var JSONCodec Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(data map[string]any) ([]byte, error) {
	return json.Marshal(data)
}

func (jsonCodec) Unmarshal(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// MsgpackCodec stores mirrors in msgpack instead of JSON. Denser than JSON,
// but only for callers who own both ends of the store.
var MsgpackCodec Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Marshal(data map[string]any) ([]byte, error) {
	return msgpack.Marshal(data)
}

func (msgpackCodec) Unmarshal(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
