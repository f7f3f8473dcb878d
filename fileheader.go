// fileheader.go: 64-byte persisted file header (C4)

package ringlog

import "encoding/binary"

// FileHeaderSize is the fixed byte size of the block at file offset 0.
const FileHeaderSize = 64

var fileMagic = [4]byte{'E', 'V', 'I', 'L'}

const fileVersion uint32 = 1

// FileHeader is the 64-byte block at the start of every persisted log
// file: magic, version, creation time, and crash-visible event-count /
// write-offset metadata.
type FileHeader struct {
	Magic       [4]byte
	Version     uint32
	CreatedAt   int64
	EventCount  uint64
	WriteOffset uint64
}

// newFileHeader stamps a fresh header: magic, version, the given creation
// time, zero event count, and WriteOffset at FileHeaderSize.
func newFileHeader(createdAt int64) FileHeader {
	return FileHeader{
		Magic:       fileMagic,
		Version:     fileVersion,
		CreatedAt:   createdAt,
		EventCount:  0,
		WriteOffset: FileHeaderSize,
	}
}

// Validate reports whether the magic and version match what this package
// writes. It does not bound-check EventCount or WriteOffset — callers that
// need those invariants impose them separately (OpenMmapReader rejects a
// WriteOffset outside the file; nothing checks EventCount).
func (h FileHeader) Validate() bool {
	return h.Magic == fileMagic && h.Version == fileVersion
}

// encode writes the header's 64-byte little-endian image into buf, which
// must have length >= FileHeaderSize. Reserved bytes are zeroed.
func (h FileHeader) encode(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(h.CreatedAt))
	binary.LittleEndian.PutUint64(buf[16:24], h.EventCount)
	binary.LittleEndian.PutUint64(buf[24:32], h.WriteOffset)
	for i := 32; i < FileHeaderSize; i++ {
		buf[i] = 0
	}
}

// decodeFileHeader reads a 64-byte little-endian header image from buf,
// which must have length >= FileHeaderSize. Reserved bytes are ignored.
func decodeFileHeader(buf []byte) FileHeader {
	var h FileHeader
	copy(h.Magic[:], buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.CreatedAt = int64(binary.LittleEndian.Uint64(buf[8:16]))
	h.EventCount = binary.LittleEndian.Uint64(buf[16:24])
	h.WriteOffset = binary.LittleEndian.Uint64(buf[24:32])
	return h
}
