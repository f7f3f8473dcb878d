// consumer.go: consumer contract and drain dispatcher (C7)
//
// Consumer composition is an external-collaborator concern: the dispatcher
// here is a minimal, directly-testable instance of it, grounded in the
// original implementation's dispatcher, not the hard-engineering subject of
// this package.

package ringlog

// EventConsumer processes drained records. Implementations should be safe
// to call from the goroutine that drives EventDispatcher; they need not be
// safe for concurrent use by multiple goroutines unless the dispatcher
// driving them is.
type EventConsumer interface {
	// Consume processes one record, returning true on success.
	Consume(header EventHeader, payload []byte) bool

	// Flush is a best-effort end-of-batch hook. Implementations with
	// nothing to flush should make this a no-op.
	Flush()

	// Name is a debugging label.
	Name() string
}

// DrainStats summarizes one drain call.
type DrainStats struct {
	EventsRead      uint64
	EventsDelivered uint64
	EventsFailed    uint64
}

// SuccessRate is EventsDelivered / (EventsDelivered + EventsFailed), or 1.0
// if nothing was attempted.
func (s DrainStats) SuccessRate() float64 {
	total := s.EventsDelivered + s.EventsFailed
	if total == 0 {
		return 1.0
	}
	return float64(s.EventsDelivered) / float64(total)
}

// EventDispatcher fans each drained record out to an ordered list of
// consumers.
type EventDispatcher struct {
	consumers []EventConsumer
}

// NewEventDispatcher returns an empty dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// AddConsumer appends a consumer to the dispatch list.
func (d *EventDispatcher) AddConsumer(consumer EventConsumer) {
	d.consumers = append(d.consumers, consumer)
}

func (d *EventDispatcher) dispatch(stats *DrainStats, header EventHeader, payload []byte) {
	stats.EventsRead++
	for _, consumer := range d.consumers {
		if consumer.Consume(header, payload) {
			stats.EventsDelivered++
		} else {
			stats.EventsFailed++
		}
	}
}

func (d *EventDispatcher) flushAll() {
	for _, consumer := range d.consumers {
		consumer.Flush()
	}
}

// Drain reads every record currently in ring and fans each out to the
// consumer list, then flushes all consumers.
func (d *EventDispatcher) Drain(ring *RingBuffer) DrainStats {
	var stats DrainStats
	for {
		header, payload, ok := ring.ReadEvent()
		if !ok {
			break
		}
		d.dispatch(&stats, header, payload)
	}
	d.flushAll()
	return stats
}

// DrainBatch reads up to limit records from ring, for callers that want to
// bound how long a single drain call runs. It does not flush consumers.
func (d *EventDispatcher) DrainBatch(ring *RingBuffer, limit int) DrainStats {
	var stats DrainStats
	for i := 0; i < limit; i++ {
		header, payload, ok := ring.ReadEvent()
		if !ok {
			break
		}
		d.dispatch(&stats, header, payload)
	}
	return stats
}

// DrainSPSC is Drain over an SPSC Consumer endpoint.
func (d *EventDispatcher) DrainSPSC(consumer *Consumer) DrainStats {
	var stats DrainStats
	for {
		header, payload, ok := consumer.ReadEvent()
		if !ok {
			break
		}
		d.dispatch(&stats, header, payload)
	}
	d.flushAll()
	return stats
}

// DrainSPSCBatch is DrainBatch over an SPSC Consumer endpoint.
func (d *EventDispatcher) DrainSPSCBatch(consumer *Consumer, limit int) DrainStats {
	var stats DrainStats
	for i := 0; i < limit; i++ {
		header, payload, ok := consumer.ReadEvent()
		if !ok {
			break
		}
		d.dispatch(&stats, header, payload)
	}
	return stats
}
