package ringlog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFixtureLog(t *testing.T, path string, records [][]byte) *MmapWriter {
	t.Helper()
	w, err := CreateMmapWriter(path, 4096)
	if err != nil {
		t.Fatalf("CreateMmapWriter: %v", err)
	}
	for i, payload := range records {
		header, err := NewEventHeader(uint64(i), 1, len(payload))
		if err != nil {
			t.Fatalf("NewEventHeader: %v", err)
		}
		if !w.WriteEvent(header, payload) {
			t.Fatalf("WriteEvent %d should succeed", i)
		}
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return w
}

func TestOpenMmapReaderRejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, make([]byte, FileHeaderSize-1), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := OpenMmapReader(path); err == nil {
		t.Fatal("OpenMmapReader should reject a file shorter than FileHeaderSize")
	}
}

func TestOpenMmapReaderRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	buf := make([]byte, FileHeaderSize)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := OpenMmapReader(path); err == nil {
		t.Fatal("OpenMmapReader should reject a zeroed (bad magic) header")
	}
}

func TestMmapReaderReplayVisitsAllRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	payloads := [][]byte{
		[]byte("one"), []byte("two"), []byte("three"),
	}
	w := writeFixtureLog(t, path, payloads)
	w.Close()

	r, err := OpenMmapReader(path)
	if err != nil {
		t.Fatalf("OpenMmapReader: %v", err)
	}
	defer r.Close()

	if r.EventCount() != uint64(len(payloads)) {
		t.Fatalf("EventCount() = %d, want %d", r.EventCount(), len(payloads))
	}

	var got [][]byte
	count := r.Replay(func(ev EventView) {
		payload := make([]byte, len(ev.Payload))
		copy(payload, ev.Payload)
		got = append(got, payload)
	})
	if count != uint64(len(payloads)) {
		t.Fatalf("Replay visited %d records, want %d", count, len(payloads))
	}
	for i, want := range payloads {
		if !bytes.Equal(got[i], want) {
			t.Fatalf("record %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestMmapReaderIteratorMatchesReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	payloads := [][]byte{[]byte("alpha"), []byte("beta")}
	w := writeFixtureLog(t, path, payloads)
	w.Close()

	r, err := OpenMmapReader(path)
	if err != nil {
		t.Fatalf("OpenMmapReader: %v", err)
	}
	defer r.Close()

	it := r.Iter()
	var got [][]byte
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		payload := make([]byte, len(ev.Payload))
		copy(payload, ev.Payload)
		got = append(got, payload)
	}

	if len(got) != len(payloads) {
		t.Fatalf("iterator yielded %d records, want %d", len(got), len(payloads))
	}
	for i, want := range payloads {
		if !bytes.Equal(got[i], want) {
			t.Fatalf("record %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestMmapReaderReplayStopsAtTruncatedTrailingRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	payloads := [][]byte{[]byte("whole-record"), []byte("also-whole"), []byte("third")}
	w := writeFixtureLog(t, path, payloads)

	// Corrupt the third record's declared payload length so it claims
	// far more bytes than write_offset actually accounts for, simulating
	// a record whose header survived but whose payload didn't.
	thirdRecordOffset := FileHeaderSize +
		EventHeaderSize + len(payloads[0]) +
		EventHeaderSize + len(payloads[1])
	header := decodeEventHeader(w.data[thirdRecordOffset : thirdRecordOffset+EventHeaderSize])
	header.PayloadLen = 60000
	header.encode(w.data[thirdRecordOffset : thirdRecordOffset+EventHeaderSize])

	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	w.Close()

	r, err := OpenMmapReader(path)
	if err != nil {
		t.Fatalf("OpenMmapReader: %v", err)
	}
	defer r.Close()

	count := r.Replay(func(EventView) {})
	if count != 2 {
		t.Fatalf("Replay visited %d records, want 2 (should stop before the corrupted trailing record)", count)
	}
}

func TestMmapReaderAdviseMethodsDoNotPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	w := writeFixtureLog(t, path, [][]byte{[]byte("x")})
	w.Close()

	r, err := OpenMmapReader(path)
	if err != nil {
		t.Fatalf("OpenMmapReader: %v", err)
	}
	defer r.Close()

	r.AdviseSequential()
	r.AdviseWillNeed()
}
