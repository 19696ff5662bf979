package usps

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// LookupCache stores raw zip-lookup responses in an embedded badger
// database keyed by a hash of the request parameters. Reruns of the
// pipeline resolve every previously seen address without touching the
// network.
type LookupCache struct {
	db  *badger.DB
	ttl time.Duration
}

// LookupCacheConfig configures the badger store.
type LookupCacheConfig struct {
	Path        string        `json:"path"`
	TTL         time.Duration `json:"-"`
	TTLDays     int           `json:"ttl_days,omitempty"`
	MaxMemoryMB int           `json:"max_memory_mb,omitempty"`
}

// OpenLookupCache opens (or creates) the badger store at cfg.Path.
func OpenLookupCache(cfg LookupCacheConfig) (*LookupCache, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.MaxMemoryMB > 0 {
		opts = opts.WithMemTableSize(int64(cfg.MaxMemoryMB) << 20)
	}
	opts = opts.WithNumVersionsToKeep(1)
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 && cfg.TTLDays > 0 {
		ttl = time.Duration(cfg.TTLDays) * 24 * time.Hour
	}
	return &LookupCache{db: db, ttl: ttl}, nil
}

// Get returns the cached response body for a key.
func (c *LookupCache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		if item.IsDeletedOrExpired() {
			return badger.ErrKeyNotFound
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores a response body under a key, with the configured TTL.
func (c *LookupCache) Set(key string, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Close closes the underlying store.
func (c *LookupCache) Close() error {
	return c.db.Close()
}

// lookupKey hashes the ordered request parameters into a cache key.
func lookupKey(prms [][2]string) string {
	h := md5.New()
	for _, prm := range prms {
		h.Write([]byte(prm[0]))
		h.Write([]byte{0})
		h.Write([]byte(prm[1]))
		h.Write([]byte{0})
	}
	return "usps:lookup:" + hex.EncodeToString(h.Sum(nil))
}
