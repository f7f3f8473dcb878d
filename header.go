// header.go: fixed 16-byte event record header (C1)

package ringlog

import "encoding/binary"

// EventHeaderSize is the fixed, little-endian, unaligned byte size of an
// EventHeader: 8 (timestamp) + 1 (event_type) + 1 (flags) + 2 (payload_len)
// + 4 (reserved).
const EventHeaderSize = 16

// maxPayloadLen is the largest payload the 16-bit payload_len field can
// represent.
const maxPayloadLen = 65535

// EventHeader precedes every event record's payload. It carries no
// interpretation of event_type or flags — those are opaque to the core.
type EventHeader struct {
	Timestamp  uint64
	EventType  uint8
	Flags      uint8
	PayloadLen uint16
}

// NewEventHeader builds a header for a payload of payloadLen bytes, with
// Flags initialised to zero. It fails with PayloadTooLargeError if
// payloadLen doesn't fit the 16-bit payload_len field.
func NewEventHeader(timestamp uint64, eventType uint8, payloadLen int) (EventHeader, error) {
	if payloadLen < 0 || payloadLen > maxPayloadLen {
		return EventHeader{}, &PayloadTooLargeError{PayloadLen: payloadLen, MaxLen: maxPayloadLen}
	}
	return EventHeader{
		Timestamp:  timestamp,
		EventType:  eventType,
		PayloadLen: uint16(payloadLen),
	}, nil
}

// TotalSize is the byte length of this header plus its payload.
func (h EventHeader) TotalSize() int {
	return EventHeaderSize + int(h.PayloadLen)
}

// encode writes the header's 16-byte little-endian image into buf, which
// must have length >= EventHeaderSize. The 4 reserved bytes are zeroed.
func (h EventHeader) encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], h.Timestamp)
	buf[8] = h.EventType
	buf[9] = h.Flags
	binary.LittleEndian.PutUint16(buf[10:12], h.PayloadLen)
	buf[12], buf[13], buf[14], buf[15] = 0, 0, 0, 0
}

// decodeEventHeader reads a 16-byte little-endian header image from buf,
// which must have length >= EventHeaderSize. Reserved bytes are ignored.
func decodeEventHeader(buf []byte) EventHeader {
	return EventHeader{
		Timestamp:  binary.LittleEndian.Uint64(buf[0:8]),
		EventType:  buf[8],
		Flags:      buf[9],
		PayloadLen: binary.LittleEndian.Uint16(buf[10:12]),
	}
}
