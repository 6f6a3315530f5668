// Package catalog keeps a persistent record of every encoding run: the
// input digest, the resulting sizes, the partition offsets needed to decode
// partitions independently and the code table.
package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/cespare/xxhash/v2"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/ZaninAndrea/huffpack/pkg/containers"
	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

var ErrNotFound = fmt.Errorf("run not found")

const (
	runPrefix = "run:"
	seqKey    = "runSeq"
)

// Record describes one encoding run.
type Record struct {
	// Seq is assigned by Put and grows with every stored run.
	Seq      uint64
	Digest   uint64
	Mode     string
	Degree   int
	Layout   string
	Symbols  int
	Distinct int
	Skipped  int
	Bits     int
	Bytes    int
	// PartitionOffsets holds the bit offset of every partition.
	PartitionOffsets []int64
	// CodeTable is the code table file content.
	CodeTable []byte
	CreatedAt time.Time
}

// Digest identifies an input by content.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func key(mode string, digest uint64) []byte {
	return fmt.Appendf(nil, "%s%s:%016x", runPrefix, mode, digest)
}

type Catalog struct {
	badger *badger.DB
	log    logger.Logger
	stop   chan struct{}
	done   chan struct{}
}

// Open opens the catalog stored in dir and starts the value log garbage
// collector.
func Open(dir string, log logger.Logger) (*Catalog, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	c, err := open(opts, log)
	if err != nil {
		return nil, err
	}

	go c.collectGarbage(time.Minute)
	return c, nil
}

// OpenInMemory opens a catalog that lives only as long as the process.
func OpenInMemory(log logger.Logger) (*Catalog, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	c, err := open(opts, log)
	if err != nil {
		return nil, err
	}

	close(c.done)
	return c, nil
}

func open(opts badger.Options, log logger.Logger) (*Catalog, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return &Catalog{
		badger: db,
		log:    log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func (c *Catalog) collectGarbage(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}

		for {
			err := c.badger.RunValueLogGC(0.7)
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			if err != nil {
				c.log.Errorf("Catalog value log GC failed: %v", err)
				return
			}
		}
	}
}

func (c *Catalog) Close() error {
	close(c.stop)
	<-c.done
	return c.badger.Close()
}

// Put stores rec, replacing any run with the same mode and digest, and
// returns the sequence number assigned to it.
func (c *Catalog) Put(ctx context.Context, rec Record) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	err := c.badger.Update(func(txn *badger.Txn) error {
		seq, err := nextSeq(txn)
		if err != nil {
			return err
		}
		rec.Seq = seq

		value, err := marshalRecord(rec)
		if err != nil {
			return err
		}
		return txn.Set(key(rec.Mode, rec.Digest), value)
	})
	if err != nil {
		return 0, err
	}

	c.log.Infof("Cataloged run %d (%s, %016x)", rec.Seq, rec.Mode, rec.Digest)
	return rec.Seq, nil
}

func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64

	item, err := txn.Get([]byte(seqKey))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return 0, err
	}
	if err == nil {
		err = item.Value(func(val []byte) error {
			_seq, n := binary.Uvarint(val)
			if n <= 0 {
				return fmt.Errorf("failed to decode varint for run sequence")
			}
			seq = _seq
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	seq++
	if err := txn.Set([]byte(seqKey), binary.AppendUvarint(nil, seq)); err != nil {
		return 0, err
	}
	return seq, nil
}

// Get returns the run recorded for the input with the given digest.
func (c *Catalog) Get(ctx context.Context, mode string, digest uint64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	var rec Record
	err := c.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(mode, digest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s %016x", ErrNotFound, mode, digest)
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			rec, err = unmarshalRecord(val)
			return err
		})
	})
	return rec, err
}

// List yields every stored run ordered by mode and digest. A failure is
// yielded as an error result and ends the iteration.
func (c *Catalog) List(ctx context.Context) iter.Seq[containers.Result[Record]] {
	return func(yield func(containers.Result[Record]) bool) {
		stopped := false
		err := c.badger.View(func(txn *badger.Txn) error {
			prefix := []byte(runPrefix)
			it := txn.NewIterator(badger.IteratorOptions{
				Prefix:         prefix,
				PrefetchValues: true,
				PrefetchSize:   16,
			})
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				var rec Record
				err := it.Item().Value(func(val []byte) error {
					var err error
					rec, err = unmarshalRecord(val)
					return err
				})
				if err != nil {
					return fmt.Errorf("run %s: %w", it.Item().Key(), err)
				}

				if !yield(containers.Ok(rec)) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(containers.Err[Record](err))
		}
	}
}
