package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okarabey/kitapara/internal/models"
)

// ErrQueueClosed is returned by Enqueue after Stop.
var ErrQueueClosed = errors.New("save queue closed")

const (
	// A producer waits while the queue is within this many slots of full.
	backpressureMargin = 10
	backpressureStep   = 100 * time.Millisecond
	backpressureLimit  = 5 * time.Second
)

type itemKind int

const (
	itemBatch itemKind = iota
	itemDrain
	itemStop
)

type item struct {
	kind  itemKind
	books []models.Book
	ack   chan struct{} // drain acknowledgement
}

// SaveQueue decouples crawl latency from store-write latency: producers
// enqueue records or batches, a single consumer drains them, re-batches
// and writes each batch idempotently. Duplicate fingerprints within or
// across batches are silently skipped by the store.
type SaveQueue struct {
	store     BookWriter
	ch        chan item
	batchSize int
	capacity  int
	closed    atomic.Bool
	done      chan struct{}
	inserted  atomic.Int64

	// directAfter is how long a producer waits on a saturated queue
	// before writing its batch synchronously.
	directAfter time.Duration

	// shutdown serializes Stop against in-flight producers: a batch or
	// drain marker sent under the read lock is always ahead of the
	// poison marker.
	shutdown sync.RWMutex
}

// BookWriter is the store seam the queue writes through.
type BookWriter interface {
	InsertBooks(ctx context.Context, books []models.Book) (int, error)
}

// NewSaveQueue creates the queue and starts its consumer.
func NewSaveQueue(st BookWriter, capacity, batchSize int) *SaveQueue {
	if capacity <= 0 {
		capacity = 1000
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	q := &SaveQueue{
		store:       st,
		ch:          make(chan item, capacity),
		batchSize:   batchSize,
		capacity:    capacity,
		done:        make(chan struct{}),
		directAfter: backpressureLimit,
	}
	go q.consume()
	return q
}

// Enqueue adds a single record.
func (q *SaveQueue) Enqueue(book models.Book) error {
	return q.EnqueueBatch([]models.Book{book})
}

// EnqueueBatch adds a pre-formed batch. When the queue is near full the
// producer backs off in short steps; if it still cannot enqueue within
// the backpressure limit, the batch is written synchronously instead.
// Data is never dropped.
func (q *SaveQueue) EnqueueBatch(books []models.Book) error {
	if len(books) == 0 {
		return nil
	}
	if q.closed.Load() {
		return ErrQueueClosed
	}

	deadline := time.Now().Add(q.directAfter)
	for len(q.ch) >= q.capacity-backpressureMargin {
		if time.Now().After(deadline) {
			return q.writeDirect(books)
		}
		time.Sleep(backpressureStep)
		if q.closed.Load() {
			return ErrQueueClosed
		}
	}

	q.shutdown.RLock()
	defer q.shutdown.RUnlock()
	if q.closed.Load() {
		return ErrQueueClosed
	}

	select {
	case q.ch <- item{kind: itemBatch, books: books}:
		return nil
	case <-time.After(time.Until(deadline)):
		return q.writeDirect(books)
	}
}

// writeDirect is the saturation fallback: a synchronous store write on
// the producer's goroutine.
func (q *SaveQueue) writeDirect(books []models.Book) error {
	n, err := q.store.InsertBooks(context.Background(), books)
	if err != nil {
		return err
	}
	q.inserted.Add(int64(n))
	log.Printf("save queue full, wrote %d books directly (%d inserted)", len(books), n)
	return nil
}

// Depth returns the number of pending queue entries, for observability.
func (q *SaveQueue) Depth() int {
	return len(q.ch)
}

// Inserted returns the number of rows the queue has actually written,
// duplicates excluded.
func (q *SaveQueue) Inserted() int64 {
	return q.inserted.Load()
}

// Drain blocks until everything enqueued before the call has been
// consumed and written. Call it before shutdown.
func (q *SaveQueue) Drain() error {
	q.shutdown.RLock()
	if q.closed.Load() {
		q.shutdown.RUnlock()
		return ErrQueueClosed
	}
	ack := make(chan struct{})
	q.ch <- item{kind: itemDrain, ack: ack}
	q.shutdown.RUnlock()
	<-ack
	return nil
}

// Stop ends the consumer once the queue is empty. Further enqueues fail
// with ErrQueueClosed.
func (q *SaveQueue) Stop() {
	q.shutdown.Lock()
	if q.closed.Swap(true) {
		q.shutdown.Unlock()
		return
	}
	q.ch <- item{kind: itemStop}
	q.shutdown.Unlock()
	<-q.done
}

func (q *SaveQueue) consume() {
	defer close(q.done)

	buf := make([]models.Book, 0, q.batchSize)
	for it := range q.ch {
		switch it.kind {
		case itemStop:
			// Stop holds the shutdown lock while sending this marker,
			// so it is always the last item: everything accepted
			// before it has already been seen.
			q.flush(buf)
			return
		case itemDrain:
			// FIFO: everything enqueued before this marker has already
			// been buffered or written.
			buf = q.flush(buf)
			close(it.ack)
		case itemBatch:
			buf = append(buf, it.books...)
			for len(buf) >= q.batchSize {
				q.write(buf[:q.batchSize])
				buf = append(buf[:0], buf[q.batchSize:]...)
			}
			// Only hold a partial batch back while more work is queued.
			if len(q.ch) == 0 {
				buf = q.flush(buf)
			}
		}
	}
}

func (q *SaveQueue) flush(buf []models.Book) []models.Book {
	if len(buf) > 0 {
		q.write(buf)
	}
	return buf[:0]
}

// write performs one idempotent batch insert. A store failure loses
// nothing but that batch's rows and is logged; the consumer keeps going
// for subsequent batches.
func (q *SaveQueue) write(books []models.Book) {
	n, err := q.store.InsertBooks(context.Background(), books)
	if err != nil {
		log.Printf("save queue: batch of %d failed: %v", len(books), err)
		return
	}
	q.inserted.Add(int64(n))
}
