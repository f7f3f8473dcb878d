// reader.go: memory-mapped append-only log reader and replay (C6)

package ringlog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapReader owns one read-only mapping and replays the persisted event
// stream written by MmapWriter. It is single-threaded: callers must not
// invoke its methods concurrently on the same instance, though the
// returned EventViews may safely be read from multiple goroutines as long
// as the reader outlives them.
type MmapReader struct {
	file   *os.File
	data   []byte
	header FileHeader
}

// OpenMmapReader opens path read-only, maps its full length, and validates
// the file header. It rejects files shorter than FileHeaderSize, with an
// invalid magic/version, or whose persisted write offset lies outside
// [FileHeaderSize, file length].
func OpenMmapReader(path string) (*MmapReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	length := int(info.Size())
	if length < FileHeaderSize {
		file.Close()
		return nil, fmt.Errorf("ringlog: %s: %w", path, ErrInvalidHeader)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("ringlog: mmap %s: %w", path, err)
	}

	header := decodeFileHeader(data[:FileHeaderSize])
	if !header.Validate() || header.WriteOffset < FileHeaderSize || header.WriteOffset > uint64(length) {
		unix.Munmap(data)
		file.Close()
		return nil, fmt.Errorf("ringlog: %s: %w", path, ErrInvalidHeader)
	}

	return &MmapReader{file: file, data: data, header: header}, nil
}

// EventCount is the total number of records the header reports as having
// been appended since the file was created.
func (r *MmapReader) EventCount() uint64 {
	return r.header.EventCount
}

// CreatedAt is the file's creation time, in seconds since the Unix epoch.
func (r *MmapReader) CreatedAt() int64 {
	return r.header.CreatedAt
}

// eventAt returns the record starting at the given mapping offset. The
// caller must have already checked that offset+EventHeaderSize and the
// decoded total size both stay within end.
func (r *MmapReader) eventAt(offset int) EventView {
	header := decodeEventHeader(r.data[offset : offset+EventHeaderSize])
	payloadStart := offset + EventHeaderSize
	payload := r.data[payloadStart : payloadStart+int(header.PayloadLen)]
	return EventView{Header: header, Payload: payload}
}

// Replay synchronously visits every record in [FileHeaderSize,
// write_offset), invoking fn with a borrowed EventView for each, and
// returns the number of records visited. A record whose payload_len would
// extend past write_offset stops iteration at that record without reading
// past the mapping.
func (r *MmapReader) Replay(fn func(EventView)) uint64 {
	offset := FileHeaderSize
	end := int(r.header.WriteOffset)
	var count uint64

	for offset+EventHeaderSize <= end {
		header := decodeEventHeader(r.data[offset : offset+EventHeaderSize])
		size := header.TotalSize()
		if offset+size > end {
			break
		}
		fn(r.eventAt(offset))
		offset += size
		count++
	}

	return count
}

// Iter returns a forward-only iterator over the same range as Replay.
func (r *MmapReader) Iter() *EventIterator {
	return &EventIterator{
		reader: r,
		offset: FileHeaderSize,
		end:    int(r.header.WriteOffset),
	}
}

// AdviseSequential hints to the kernel that the mapping will be read
// sequentially. Best-effort; its error is ignored since it never affects
// correctness.
func (r *MmapReader) AdviseSequential() {
	_ = unix.Madvise(r.data, unix.MADV_SEQUENTIAL)
}

// AdviseWillNeed hints to the kernel that the whole mapping will be
// needed soon. Best-effort; its error is ignored since it never affects
// correctness.
func (r *MmapReader) AdviseWillNeed() {
	_ = unix.Madvise(r.data, unix.MADV_WILLNEED)
}

// Close unmaps the file and closes the descriptor.
func (r *MmapReader) Close() error {
	munmapErr := unix.Munmap(r.data)
	closeErr := r.file.Close()
	if munmapErr != nil {
		return munmapErr
	}
	return closeErr
}

// EventIterator is a lazy, forward-only sequence of EventViews produced by
// MmapReader.Iter.
type EventIterator struct {
	reader *MmapReader
	offset int
	end    int
}

// Next returns the next record, or ok=false once the range is exhausted or
// a malformed trailing record is encountered.
func (it *EventIterator) Next() (event EventView, ok bool) {
	if it.offset+EventHeaderSize > it.end {
		return EventView{}, false
	}

	header := decodeEventHeader(it.reader.data[it.offset : it.offset+EventHeaderSize])
	size := header.TotalSize()
	if it.offset+size > it.end {
		return EventView{}, false
	}

	event = it.reader.eventAt(it.offset)
	it.offset += size
	return event, true
}

// Len reports an upper bound on the number of records remaining, computed
// as (end-offset)/EventHeaderSize. It counts zero-payload records, so it
// isn't a tight bound when records carry payloads — callers wanting an
// exact count should drain with Next.
func (it *EventIterator) Len() int {
	return (it.end - it.offset) / EventHeaderSize
}
