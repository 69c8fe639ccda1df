package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/blakesmith/ar"
	"github.com/gofrs/flock"
	"github.com/sigurn/crc16"

	"github.com/nat-run/natheap/heap"
)

var crc16Table = crc16.MakeTable(crc16.CRC16_XMODEM)

// snapshotRecord is one cell's on-disk representation: just enough to
// audit heap occupancy after the fact (tag and address), not enough to
// fully rehydrate a live heap — spec.md's object heap has no required
// serialization format, so this one is heapctl's own operator tool, not
// part of the module's contract.
type snapshotRecord struct {
	Addr uint64
	Tag  heap.VariantTag
}

// encodeSnapshot serializes stats plus the given cell records, then
// appends a CRC16 trailer over the whole payload — the Go-native
// analogue of the original source's nat_gc_push_object corruption-check
// aborts (spec.md §4.2, §7), extended here to persisted snapshots so a
// truncated or corrupted file is caught on load rather than silently
// misread.
func encodeSnapshot(stats heap.Stats, records []snapshotRecord) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(stats.CellsTotal))
	binary.Write(&buf, binary.LittleEndian, uint64(stats.CellsAvailable))
	binary.Write(&buf, binary.LittleEndian, uint32(len(records)))
	for _, r := range records {
		binary.Write(&buf, binary.LittleEndian, r.Addr)
		binary.Write(&buf, binary.LittleEndian, uint8(r.Tag))
	}

	checksum := crc16.Checksum(buf.Bytes(), crc16Table)
	binary.Write(&buf, binary.LittleEndian, checksum)
	return buf.Bytes()
}

func decodeSnapshot(data []byte) ([]snapshotRecord, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("heapctl: snapshot too short")
	}
	body, trailer := data[:len(data)-2], data[len(data)-2:]
	want := binary.LittleEndian.Uint16(trailer)
	got := crc16.Checksum(body, crc16Table)
	if want != got {
		return nil, fmt.Errorf("heapctl: snapshot CRC mismatch: file=%#x computed=%#x", want, got)
	}

	r := bytes.NewReader(body)
	var cellsTotal, cellsAvailable uint64
	var count uint32
	binary.Read(r, binary.LittleEndian, &cellsTotal)
	binary.Read(r, binary.LittleEndian, &cellsAvailable)
	binary.Read(r, binary.LittleEndian, &count)

	records := make([]snapshotRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec snapshotRecord
		var tag uint8
		binary.Read(r, binary.LittleEndian, &rec.Addr)
		binary.Read(r, binary.LittleEndian, &tag)
		rec.Tag = heap.VariantTag(tag)
		records = append(records, rec)
	}
	return records, nil
}

// saveSnapshot writes a CRC-trailered snapshot of h's current cells to
// dir, holding an exclusive file lock for the duration so two operators
// dumping the same heap concurrently can't interleave writes.
func saveSnapshot(h *heap.Heap, dir string, records []snapshotRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "heap.snapshot")
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("heapctl: locking snapshot dir: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("heapctl: snapshot directory %s is locked by another heapctl", dir)
	}
	defer lock.Unlock()

	data := encodeSnapshot(h.Stats(), records)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// bundleSnapshot packs a snapshot file and a small text manifest into a
// single .ar archive for transport, the same archive format the teacher
// uses for packaging build artifacts.
func bundleSnapshot(snapshotPath, bundlePath string, stats heap.Stats) error {
	snap, err := os.ReadFile(snapshotPath)
	if err != nil {
		return err
	}
	manifest := []byte(fmt.Sprintf(
		"generated=%s\nblocks=%d\ncells_total=%d\ncells_available=%d\n",
		time.Now().UTC().Format(time.RFC3339), stats.Blocks, stats.CellsTotal, stats.CellsAvailable,
	))

	out, err := os.Create(bundlePath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := ar.NewWriter(out)
	if err := w.WriteGlobalHeader(); err != nil {
		return err
	}
	if err := writeArEntry(w, "manifest.txt", manifest); err != nil {
		return err
	}
	if err := writeArEntry(w, "heap.snapshot", snap); err != nil {
		return err
	}
	return nil
}

func writeArEntry(w *ar.Writer, name string, data []byte) error {
	hdr := &ar.Header{
		Name: name,
		Size: int64(len(data)),
		Mode: 0o644,
	}
	if err := w.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}
