// Command ringlogd wires an SPSC ring to a memory-mapped log file: a
// producer goroutine generates synthetic events, a consumer goroutine
// drains the ring and appends them to disk, and the process reports
// throughput until it receives SIGINT/SIGTERM.
//
// This is the out-of-scope "executable entry point" surrounding the core
// ring and mmap components — signal handling, stats printing, and the
// sleep-polled drain loop carry no invariants of their own.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kartiktoogoated/ringlog"
)

type mmapConsumer struct {
	writer  *ringlog.MmapWriter
	written uint64
}

func (c *mmapConsumer) Consume(header ringlog.EventHeader, payload []byte) bool {
	ok := c.writer.WriteEvent(header, payload)
	if ok {
		c.written++
	}
	return ok
}

func (c *mmapConsumer) Flush() {
	_ = c.writer.SyncAsync()
}

func (c *mmapConsumer) Name() string {
	return "mmap"
}

func main() {
	path := flag.String("path", "/tmp/ringlog.log", "path to the persisted log file")
	ringCapacity := flag.Int("ring-capacity", 64*1024, "SPSC ring capacity in bytes (power of two)")
	fileCapacity := flag.Int("file-capacity", 64*1024*1024, "mmap file capacity in bytes (the file is not grown)")
	flag.Parse()

	ring, err := ringlog.NewSpscRingBuffer(*ringCapacity)
	if err != nil {
		log.Fatalf("create ring: %v", err)
	}
	producer, consumer := ring.Split()

	writer, err := ringlog.CreateMmapWriter(*path, *fileCapacity)
	if err != nil {
		log.Fatalf("create mmap writer: %v", err)
	}
	defer writer.Close()

	dispatcher := ringlog.NewEventDispatcher()
	dispatcher.AddConsumer(&mmapConsumer{writer: writer})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	var producerCount uint64
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		clock := ringlog.NewClock()
		defer clock.Stop()

		payload := make([]byte, 64)
		for {
			select {
			case <-done:
				return
			default:
			}

			header, err := clock.NewEventHeader(1, len(payload))
			if err != nil {
				continue
			}
			if producer.WriteEvent(header, payload) {
				producerCount++
			}
		}
	}()

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		var totalRead uint64
		for {
			stats := dispatcher.DrainSPSC(consumer)
			totalRead += stats.EventsRead

			select {
			case <-ticker.C:
				log.Printf("total_read=%d written=%d", totalRead, writer.FileHeader().EventCount)
			default:
			}

			select {
			case <-done:
				if consumer.IsEmpty() {
					return
				}
			default:
			}

			time.Sleep(10 * time.Millisecond)
		}
	}()

	<-stop
	log.Println("shutting down...")
	close(done)
	wg.Wait()

	if err := writer.Sync(); err != nil {
		log.Printf("final sync failed: %v", err)
	}
	log.Printf("produced=%d persisted=%d", producerCount, writer.FileHeader().EventCount)
}
