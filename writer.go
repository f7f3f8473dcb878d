// writer.go: memory-mapped append-only log writer (C5)

package ringlog

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// minMmapCapacity is the smallest file size CreateMmapWriter will create.
const minMmapCapacity = 4096

// MmapWriter owns one file descriptor and one read-write mapping, and
// appends framed event records to it. It is single-threaded: callers must
// externally serialize calls to WriteEvent (and to Sync/Close alongside
// it).
type MmapWriter struct {
	file        *os.File
	data        []byte
	writeOffset int
	clock       *Clock
}

// CreateMmapWriter creates (or truncates) the file at path, sizes it to at
// least capacity bytes, maps it read-write, and stamps a fresh FileHeader.
func CreateMmapWriter(path string, capacity int) (*MmapWriter, error) {
	if capacity < minMmapCapacity {
		capacity = minMmapCapacity
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	if err := file.Truncate(int64(capacity)); err != nil {
		file.Close()
		return nil, fmt.Errorf("ringlog: resize %s: %w", path, err)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("ringlog: mmap %s: %w", path, err)
	}

	w := &MmapWriter{
		file:        file,
		data:        data,
		writeOffset: FileHeaderSize,
		clock:       NewClock(),
	}

	header := newFileHeader(w.clock.Now().Unix())
	header.encode(w.data[:FileHeaderSize])

	return w, nil
}

// OpenMmapWriter opens an existing file for appending, maps its full
// length, and restores WriteOffset from the persisted header. It rejects
// files with an invalid magic or version.
func OpenMmapWriter(path string) (*MmapWriter, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	capacity := int(info.Size())
	if capacity < FileHeaderSize {
		file.Close()
		return nil, fmt.Errorf("ringlog: %s: %w", path, ErrInvalidHeader)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("ringlog: mmap %s: %w", path, err)
	}

	header := decodeFileHeader(data[:FileHeaderSize])
	if !header.Validate() {
		unix.Munmap(data)
		file.Close()
		return nil, fmt.Errorf("ringlog: %s: %w", path, ErrInvalidHeader)
	}

	return &MmapWriter{
		file:        file,
		data:        data,
		writeOffset: int(header.WriteOffset),
		clock:       NewClock(),
	}, nil
}

// Available returns the number of bytes remaining in the mapping after the
// current write offset.
func (w *MmapWriter) Available() int {
	return len(w.data) - w.writeOffset
}

// WriteEvent appends header and payload at the current write offset. It
// returns false without growing the file if the record doesn't fit —
// rotating to a new file is the caller's responsibility.
func (w *MmapWriter) WriteEvent(header EventHeader, payload []byte) bool {
	need := header.TotalSize()
	if need > w.Available() {
		return false
	}

	dst := w.data[w.writeOffset:]
	header.encode(dst[:EventHeaderSize])
	copy(dst[EventHeaderSize:], payload)

	w.writeOffset += need
	w.updateFileHeader()
	return true
}

// updateFileHeader increments the persisted event count and advances the
// persisted write offset. The kernel sees these immediately; they reach
// the backing store only on Sync/SyncAsync.
func (w *MmapWriter) updateFileHeader() {
	count := binary.LittleEndian.Uint64(w.data[16:24]) + 1
	binary.LittleEndian.PutUint64(w.data[16:24], count)
	binary.LittleEndian.PutUint64(w.data[24:32], uint64(w.writeOffset))
}

// FileHeader returns a copy of the persisted file header as it currently
// stands in the mapping.
func (w *MmapWriter) FileHeader() FileHeader {
	return decodeFileHeader(w.data[:FileHeaderSize])
}

// WriteOffset returns the byte offset at which the next record would be
// written.
func (w *MmapWriter) WriteOffset() int {
	return w.writeOffset
}

// Sync flushes the whole mapping to the backing store synchronously.
// Idempotent.
func (w *MmapWriter) Sync() error {
	return unix.Msync(w.data, unix.MS_SYNC)
}

// SyncAsync schedules a flush of the whole mapping without waiting for it
// to complete.
func (w *MmapWriter) SyncAsync() error {
	return unix.Msync(w.data, unix.MS_ASYNC)
}

// Close performs a best-effort synchronous sync (its error is discarded —
// call Sync explicitly to observe flush failures), then unmaps the file and
// closes the descriptor.
func (w *MmapWriter) Close() error {
	_ = w.Sync()
	w.clock.Stop()

	munmapErr := unix.Munmap(w.data)
	closeErr := w.file.Close()
	if munmapErr != nil {
		return munmapErr
	}
	return closeErr
}
