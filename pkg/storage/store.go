/*
Package storage provides the KV store backends contract state lives in.

Three implementations are available: an in-memory store for tests and
throwaway sandboxes, a BoltDB store (the sandbox default) and a
LevelDB store.
*/
package storage

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

// Store is the underlying KV backend for contract state. Puts and
// deletes are durable once the call returns.
type Store interface {
	Get([]byte) ([]byte, error)
	Put(k, v []byte) error
	Delete(k []byte) error
	// Seek iterates over key-value pairs with the given key prefix in
	// ascending key order. Iteration continues until false is returned
	// from f. Key and value slices should not be modified.
	Seek(prefix []byte, f func(k, v []byte) bool)
	Close() error
}

// KeyValue represents a key-value pair.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// DBConfiguration describes the configuration of the store backend.
type DBConfiguration struct {
	Type     string `yaml:"Type"`
	FilePath string `yaml:"FilePath"`
}

// NewStore creates a storage with the preselected in configuration
// database type.
func NewStore(cfg DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case "leveldb":
		store, err = NewLevelDBStore(cfg.FilePath)
	case "inmemory":
		store = NewMemoryStore()
	case "boltdb":
		store, err = NewBoltDBStore(cfg.FilePath)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}
