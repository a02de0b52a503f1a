// Package flatzip writes store-only ZIP archives: every entry is kept
// uncompressed, so readers that only need to locate and slice parts (as
// spreadsheet consumers do) can do so without a decompressor. Entry
// contents stream straight to the output file while the central
// directory accumulates in memory and lands at the end, as the format
// requires.
package flatzip

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	ErrNotOpen       = errors.New("flatzip: archive is not open")
	ErrDoubleOpen    = errors.New("flatzip: archive is already open")
	ErrDuplicateName = errors.New("flatzip: duplicate entry name")
	ErrEmptyArchive  = errors.New("flatzip: archive has no entries")
)

// Writer assembles one archive at a time. The zero value is ready to
// use; Open it, add entries, then Finalize. After Finalize the Writer
// resets and may be opened again for a fresh archive.
//
// Once a write to the output fails, the Writer is poisoned: the failed
// call and every later AddFile or Finalize return that first error.
// Close abandons such an archive.
type Writer struct {
	// Now supplies entry modification times. Nil means time.Now.
	Now func() time.Time

	f         *os.File
	opened    bool
	err       error // first output failure, sticky
	entries   int
	offset    uint32 // where the next local header lands
	directory bytes.Buffer
	names     map[string]struct{}
}

// Open creates or truncates the archive file at path and readies the
// Writer for AddFile, discarding any state from a previous archive.
func (w *Writer) Open(path string) error {
	if w.opened {
		return ErrDoubleOpen
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("flatzip: open archive: %w", err)
	}
	w.f = f
	w.opened = true
	w.err = nil
	w.entries = 0
	w.offset = 0
	w.directory.Reset()
	w.names = make(map[string]struct{})
	return nil
}

// AddFile appends one entry named name holding contents. The local
// header and contents are written immediately; the matching central
// directory record is buffered until Finalize. Names longer than 65535
// bytes are truncated, and each name may appear only once per archive.
// A rejected duplicate writes nothing and leaves the Writer usable.
func (w *Writer) AddFile(name string, contents []byte) error {
	if !w.opened {
		return ErrNotOpen
	}
	if w.err != nil {
		return w.err
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	if _, exists := w.names[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	e := entryDesc{
		crc:  Checksum(contents),
		size: uint32(len(contents)),
		name: name,
	}
	e.modTime, e.modDate = dosTimeDate(now())

	w.names[name] = struct{}{}
	w.directory.Write(e.encodeCentral(w.offset))
	if _, err := w.f.Write(e.encodeLocal()); err != nil {
		w.err = fmt.Errorf("flatzip: write entry header: %w", err)
		return w.err
	}
	if _, err := w.f.Write(contents); err != nil {
		w.err = fmt.Errorf("flatzip: write entry contents: %w", err)
		return w.err
	}
	w.offset += localHeaderLen + uint32(len(name)) + uint32(len(contents))
	w.entries++
	return nil
}

// Finalize writes the buffered central directory and the end record,
// closes the output and resets the Writer for reuse. An archive with no
// entries is rejected before anything is written.
func (w *Writer) Finalize() error {
	if !w.opened {
		return ErrNotOpen
	}
	if w.err != nil {
		return w.err
	}
	if w.entries == 0 || w.offset == 0 || w.directory.Len() == 0 {
		return ErrEmptyArchive
	}
	dirSize := uint32(w.directory.Len())
	if _, err := w.f.Write(w.directory.Bytes()); err != nil {
		w.err = fmt.Errorf("flatzip: write central directory: %w", err)
		return w.err
	}
	if _, err := w.f.Write(encodeEndRecord(uint16(w.entries), dirSize, w.offset)); err != nil {
		w.err = fmt.Errorf("flatzip: write end record: %w", err)
		return w.err
	}
	err := w.f.Close()
	w.reset()
	if err != nil {
		return fmt.Errorf("flatzip: close archive: %w", err)
	}
	return nil
}

// Close abandons an open archive without writing its central directory,
// leaving whatever partial output exists on disk. It resets the Writer
// so it can be opened again. Closing a Writer that is not open is a
// no-op.
func (w *Writer) Close() error {
	if !w.opened {
		return nil
	}
	err := w.f.Close()
	w.reset()
	if err != nil {
		return fmt.Errorf("flatzip: close archive: %w", err)
	}
	return nil
}

func (w *Writer) reset() {
	w.f = nil
	w.opened = false
	w.entries = 0
	w.offset = 0
	w.directory.Reset()
	w.names = nil
}
