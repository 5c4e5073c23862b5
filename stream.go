package docdb

import (
	"math"
	"sync"

	"github.com/andreyvit/docdb/docpath"
)

// Demand is a number of documents a subscriber is ready to receive.
type Demand int64

// UnlimitedDemand asks for every remaining document.
const UnlimitedDemand Demand = -1

func (d Demand) IsUnlimited() bool {
	return d < 0
}

func (d Demand) add(n Demand) Demand {
	switch {
	case d < 0 || n < 0:
		return UnlimitedDemand
	case d > math.MaxInt64-n:
		return UnlimitedDemand
	default:
		return d + n
	}
}

// Subscriber receives documents from a Stream.
type Subscriber interface {
	// OnSubscribe is called once, before anything else. Nothing is delivered
	// until the subscriber requests demand on the subscription.
	OnSubscribe(sub Subscription)

	// OnNext delivers one document and returns additional demand to grant,
	// which is zero when the subscriber wants nothing beyond what it has
	// already requested.
	OnNext(doc Document) Demand

	// OnComplete is called once after the last document. It is not called
	// after Cancel.
	OnComplete()
}

// Subscription lets a subscriber control delivery. Both methods may be called
// from inside the subscriber's callbacks and from other goroutines.
type Subscription interface {
	// Request adds n to the outstanding demand. Zero is a no-op; negative
	// values mean UnlimitedDemand.
	Request(n Demand)

	// Cancel stops delivery for good. Cancelling again is a no-op.
	Cancel()
}

// Stream pushes query results to a single subscriber under demand control,
// in the same order and with the same limit and projection as Query.
type Stream struct {
	mu   sync.Mutex
	it   *QueryIterator
	used bool
}

// QueryStream validates folder and returns a stream of the matching
// documents. It fails with ErrNotADirectory if folder is not a folder.
func (db *DB) QueryStream(folder docpath.Path, clauses []Clause, opt QueryOptions) (*Stream, error) {
	it, err := db.newQueryIterator(surfaceStream, folder, clauses, opt)
	if err != nil {
		return nil, err
	}
	return &Stream{it: it}, nil
}

// Subscribe attaches s to the stream. A stream is single-pass: later
// subscribers are completed immediately without receiving documents.
func (st *Stream) Subscribe(s Subscriber) {
	st.mu.Lock()
	used := st.used
	st.used = true
	st.mu.Unlock()

	if used {
		s.OnSubscribe(noopSubscription{})
		s.OnComplete()
		return
	}
	s.OnSubscribe(&subscription{it: st.it, sub: s})
}

// Collect subscribes with unlimited demand and returns everything delivered.
func (st *Stream) Collect() []Document {
	var c collector
	st.Subscribe(&c)
	return c.docs
}

type collector struct {
	docs []Document
}

func (c *collector) OnSubscribe(sub Subscription) { sub.Request(UnlimitedDemand) }
func (c *collector) OnNext(doc Document) Demand   { c.docs = append(c.docs, doc); return 0 }
func (c *collector) OnComplete()                  {}

type noopSubscription struct{}

func (noopSubscription) Request(Demand) {}
func (noopSubscription) Cancel()        {}

// subscription drains the iterator in a loop for as long as there is
// outstanding demand. Only the goroutine that set draining touches the
// iterator; callbacks run without the lock held, so re-entrant Request calls
// just add demand for the running loop to pick up.
type subscription struct {
	it  *QueryIterator
	sub Subscriber

	mu        sync.Mutex
	demand    Demand
	draining  bool
	cancelled bool
	completed bool
}

func (s *subscription) Request(n Demand) {
	if n == 0 {
		return
	}
	s.mu.Lock()
	if s.cancelled || s.completed {
		s.mu.Unlock()
		return
	}
	s.demand = s.demand.add(n)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *subscription) drain() {
	for {
		s.mu.Lock()
		if s.cancelled {
			s.draining = false
			s.it.Close()
			s.mu.Unlock()
			return
		}
		if s.demand == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		if !s.it.Next() {
			s.completed = true
			s.draining = false
			s.mu.Unlock()
			s.sub.OnComplete()
			return
		}
		doc := s.it.Document()
		if !s.demand.IsUnlimited() {
			s.demand--
		}
		s.mu.Unlock()

		if extra := s.sub.OnNext(doc); extra != 0 {
			s.mu.Lock()
			if !s.cancelled {
				s.demand = s.demand.add(extra)
			}
			s.mu.Unlock()
		}
	}
}

func (s *subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	if !s.draining && !s.completed {
		s.it.Close()
	}
}
