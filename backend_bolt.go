package nstree

import (
	"fmt"
	"slices"
	"time"
	"unsafe"

	"go.etcd.io/bbolt"
)

const boltBucketName = "namespaces"

// BoltBackend is a durable Backend storing all namespaces in a single
// bucket of a Bolt database file.
type BoltBackend struct {
	bdb *bbolt.DB
}

type BoltOptions struct {
	IsTesting bool
	MmapSize  int
}

func OpenBolt(path string, opt BoltOptions) (*BoltBackend, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("nstree: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists([]byte(boltBucketName))
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("nstree: %w", err)
	}
	return &BoltBackend{bdb: bdb}, nil
}

func (b *BoltBackend) Bolt() *bbolt.DB {
	return b.bdb
}

func (b *BoltBackend) Close() error {
	return b.bdb.Close()
}

func (b *BoltBackend) Get(key string) ([]byte, bool, error) {
	var data []byte
	var found bool
	err := b.bdb.View(func(btx *bbolt.Tx) error {
		bkt := btx.Bucket([]byte(boltBucketName))
		if bkt == nil {
			return nil
		}
		if v := bkt.Get(unsafeBytesFromString(key)); v != nil {
			data = slices.Clone(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

func (b *BoltBackend) Set(key string, data []byte) error {
	return b.bdb.Update(func(btx *bbolt.Tx) error {
		bkt, err := btx.CreateBucketIfNotExists([]byte(boltBucketName))
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), data)
	})
}

func (b *BoltBackend) Remove(key string) error {
	return b.bdb.Update(func(btx *bbolt.Tx) error {
		bkt := btx.Bucket([]byte(boltBucketName))
		if bkt == nil {
			return nil
		}
		return bkt.Delete(unsafeBytesFromString(key))
	})
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
