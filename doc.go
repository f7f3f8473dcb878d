// Package ringlog is a low-latency, in-process event logging pipeline.
//
// A hot-path producer appends fixed-header, variable-payload records into a
// bounded in-memory ring; a background consumer drains that ring and
// persists records into a memory-mapped append-only file. The package
// targets single-digit-microsecond enqueue latency on a single
// producer/consumer pair.
//
// # Quick start
//
// Staging events on a single goroutine with [RingBuffer]:
//
//	ring, err := ringlog.NewRingBuffer(4096)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	header, _ := ringlog.NewEventHeader(1000, 1, len(payload))
//	if err := ring.WriteEvent(header, payload); err != nil {
//		log.Printf("ring full: %v", err)
//	}
//
//	if h, p, ok := ring.ReadEvent(); ok {
//		fmt.Println(h.Timestamp, string(p))
//	}
//
// # Producer/consumer threads
//
// [SpscRingBuffer] hands out a [Producer] and a [Consumer] endpoint, each
// exclusive to one goroutine:
//
//	ring, err := ringlog.NewSpscRingBuffer(64 * 1024)
//	producer, consumer := ring.Split()
//
// # Persistence
//
// [MmapWriter] appends framed records to a memory-mapped file; [MmapReader]
// replays them back:
//
//	writer, err := ringlog.CreateMmapWriter("events.log", 4096)
//	writer.WriteEvent(header, payload)
//	writer.Sync()
//	writer.Close()
//
//	reader, err := ringlog.OpenMmapReader("events.log")
//	reader.Replay(func(ev ringlog.EventView) {
//		fmt.Println(ev.Header.Timestamp, len(ev.Payload))
//	})
package ringlog
