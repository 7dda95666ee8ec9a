// Package store persists the picked clip reference across launches.
//
// A Store is a plain key-value collaborator. Absence of RefKey means the
// default clip is in use.
package store

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/where"
)

// RefKey is the key holding the picked clip reference.
const RefKey = "video_uri"

// Backend identifiers accepted by New.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Store is a durable key-value store.
type Store interface {
	// Get returns the value stored under k, or none when absent.
	Get(k string) (mo.Option[string], error)
	Set(k, value string) error
	// Remove deletes k. Removing an absent key is not an error.
	Remove(k string) error
}

// New returns the store for the named backend.
func New(backend string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFile(where.State()), nil
	case BackendKeyring:
		return NewKeyring(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// FromConfig returns the store selected by the store.backend setting.
func FromConfig() (Store, error) {
	return New(viper.GetString(key.StoreBackend))
}

// LoadRef reads the persisted clip reference. A store that cannot be read
// is treated exactly like one holding no reference.
func LoadRef(s Store) mo.Option[string] {
	ref, err := s.Get(RefKey)
	if err != nil {
		log.Warnf("read clip reference, falling back to the default clip: %v", err)
		return mo.None[string]()
	}

	if v, ok := ref.Get(); !ok || strings.TrimSpace(v) == "" {
		return mo.None[string]()
	}

	return ref
}
