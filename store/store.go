package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/katalvlaran/gridcalc/position"
	"github.com/katalvlaran/gridcalc/sheet"
)

var (
	// ErrSheetNotFound indicates that no sheet is stored under the name.
	ErrSheetNotFound = errors.New("store: sheet not found")
	// ErrInvalidName indicates an empty sheet name.
	ErrInvalidName = errors.New("store: invalid sheet name")
	// ErrCorruptRecord indicates a stored cell that cannot be replayed.
	ErrCorruptRecord = errors.New("store: corrupt record")
)

const (
	keySize = 8

	fileMode    = 0o600
	openTimeout = time.Second
)

// Store is a bbolt-backed collection of named sheets.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, fileMode, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored copy of name with every live cell of sh in a
// single transaction.
func (s *Store) Save(name string, sh *sheet.Sheet) error {
	if name == "" {
		return ErrInvalidName
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		// 1) Drop the previous copy.
		if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}

		// 2) Write cells in key order.
		bucket, err := tx.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		bucket.FillPercent = 1
		for p, c := range sh.All() {
			if err := bucket.Put(encodeKey(p), []byte(c.Text())); err != nil {
				return fmt.Errorf("store: put %s: %w", p, err)
			}
		}

		return nil
	})
}

// Load rebuilds the sheet stored under name. opts are passed to sheet.New.
func (s *Store) Load(name string, opts ...sheet.Option) (*sheet.Sheet, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	sh := sheet.New(opts...)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(name))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
		}

		return bucket.ForEach(func(k, v []byte) error {
			p, ok := decodeKey(k)
			if !ok {
				return fmt.Errorf("%w: key %x", ErrCorruptRecord, k)
			}
			if err := sh.SetCell(p, string(v)); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, p, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return sh, nil
}

// Delete removes the sheet stored under name.
func (s *Store) Delete(name string) error {
	if name == "" {
		return ErrInvalidName
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
		}
		return err
	})
}

// List returns the stored sheet names in byte order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})

	return names, err
}

func encodeKey(p position.Position) []byte {
	k := make([]byte, keySize)
	binary.BigEndian.PutUint32(k[:4], uint32(p.Row))
	binary.BigEndian.PutUint32(k[4:], uint32(p.Col))

	return k
}

func decodeKey(k []byte) (position.Position, bool) {
	if len(k) != keySize {
		return position.None, false
	}
	p := position.Position{
		Row: int(binary.BigEndian.Uint32(k[:4])),
		Col: int(binary.BigEndian.Uint32(k[4:])),
	}

	return p, p.IsValid()
}
