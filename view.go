// view.go: borrowed view over a record backed by a ring or mapping

package ringlog

// EventView is a header plus payload slice that borrows its backing storage
// (an MmapReader's memory mapping) rather than copying it. It is only valid
// until that mapping is closed. The rings do not return EventViews; their
// ReadEvent methods return copied payloads.
type EventView struct {
	Header  EventHeader
	Payload []byte
}

// TotalSize is the byte length of the header plus its payload.
func (v EventView) TotalSize() int {
	return v.Header.TotalSize()
}
