// Package treestore keeps named serialized flat trees in a bbolt database.
package treestore

import (
	"bytes"
	"time"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/uftree"
	"go-gametree/util/logger"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var (
	ErrNotFound  = errors.New("tree not found")
	ErrEmptyName = errors.New("empty tree name")
	ErrNotStore  = errors.New("not a tree store")
	ErrChecksum  = errors.New("stored tree checksum mismatch")
)

var (
	treesBucket   = []byte("trees")
	entriesBucket = []byte("entries")
)

var log = logger.Component("treestore")

type Options struct {
	Timeout  time.Duration
	NoSync   bool
	ReadOnly bool
}

var DefaultOptions = &Options{
	Timeout: 10 * time.Second,
}

// Entry describes a stored tree.
type Entry struct {
	// ID is assigned on the first Put of a name and kept by later ones.
	ID          string    `msgpack:"id"`
	Name        string    `msgpack:"name"`
	NodesCount  int64     `msgpack:"nodes"`
	RecordSize  int       `msgpack:"record_size"`
	Size        int64     `msgpack:"size"`
	Description string    `msgpack:"description"`
	Stored      time.Time `msgpack:"stored"`

	// Checksum is the xxhash of the serialized tree.
	Checksum uint64 `msgpack:"checksum"`
}

type Store struct {
	db *bbolt.DB
}

func Open(path string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions
	}

	bopts := *bbolt.DefaultOptions
	bopts.Timeout = opts.Timeout
	bopts.NoSync = opts.NoSync
	bopts.ReadOnly = opts.ReadOnly

	db, err := bbolt.Open(path, 0o644, &bopts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tree store %s", path)
	}

	if opts.ReadOnly {
		err = db.View(func(tx *bbolt.Tx) error {
			for _, name := range [][]byte{treesBucket, entriesBucket} {
				if tx.Bucket(name) == nil {
					return errors.Wrapf(ErrNotStore, "missing bucket %s", name)
				}
			}
			return nil
		})
	} else {
		err = db.Update(func(tx *bbolt.Tx) error {
			for _, name := range [][]byte{treesBucket, entriesBucket} {
				if _, err := tx.CreateBucketIfNotExists(name); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to init tree store %s", path)
	}

	log.Debugf("opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put serializes t under name, replacing any previous tree of that name.
func (s *Store) Put(name string, t *uftree.Tree) error {
	if name == "" {
		return ErrEmptyName
	}

	buf := &bytes.Buffer{}
	if err := t.Write(buf); err != nil {
		return errors.Wrapf(err, "failed to serialize tree %q", name)
	}

	v := t.Version
	if v == nil {
		v = uftree.DefaultVersion()
	}
	entry := &Entry{
		ID:          uuid.NewString(),
		Name:        name,
		NodesCount:  t.NodesCount(),
		RecordSize:  t.RecordSize(),
		Size:        int64(buf.Len()),
		Description: v.Description,
		Stored:      time.Now().UTC(),
		Checksum:    xxhash.Sum64(buf.Bytes()),
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if prev, err := getEntry(tx, name); err == nil {
			entry.ID = prev.ID
		}
		meta, err := msgpack.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, "failed to encode tree entry")
		}
		if err := tx.Bucket(treesBucket).Put([]byte(name), buf.Bytes()); err != nil {
			return err
		}
		return tx.Bucket(entriesBucket).Put([]byte(name), meta)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to store tree %q", name)
	}

	log.Debugf("stored %q: %d nodes, %d bytes", name, entry.NodesCount, entry.Size)
	return nil
}

// Get reads the tree stored under name. A zero recordSize uses the record
// size the tree was stored with.
func (s *Store) Get(name string, alloc *allocator.Allocator, recordSize int, opts *uftree.ReadOptions) (*uftree.Tree, error) {
	var tree *uftree.Tree
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(treesBucket).Get([]byte(name))
		if data == nil {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}

		entry, err := getEntry(tx, name)
		if err != nil {
			return err
		}
		if sum := xxhash.Sum64(data); sum != entry.Checksum {
			return errors.Wrapf(ErrChecksum, "%q: stored %#016x, computed %#016x", name, entry.Checksum, sum)
		}
		if recordSize == 0 {
			recordSize = entry.RecordSize
		}

		tree, err = uftree.Read(bytes.NewReader(data), alloc, recordSize, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Stat returns the entry of the tree stored under name.
func (s *Store) Stat(name string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		entry, err = getEntry(tx, name)
		return err
	})
	return entry, err
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := []byte(name)
		if tx.Bucket(treesBucket).Get(key) == nil {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		if err := tx.Bucket(treesBucket).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(entriesBucket).Delete(key)
	})
}

// List returns the entries of all stored trees ordered by name.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := msgpack.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "failed to decode entry %q", k)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func getEntry(tx *bbolt.Tx, name string) (*Entry, error) {
	data := tx.Bucket(entriesBucket).Get([]byte(name))
	if data == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	entry := &Entry{}
	if err := msgpack.Unmarshal(data, entry); err != nil {
		return nil, errors.Wrapf(err, "failed to decode entry %q", name)
	}
	return entry, nil
}
