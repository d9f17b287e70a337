package bufferpool

import (
	"errors"
	"log/slog"

	"github.com/tuannm99/pagedb/internal/storage"
)

var (
	DefaultCapacity = 128

	// ErrPoolExhausted means no evictable frame exists: every frame is
	// pinned. The caller must unpin something and retry.
	ErrPoolExhausted = errors.New("bufferpool: no evictable frame available (all pinned)")

	// ErrPageNotPinned means Unpin was called for a page that is not
	// resident or whose pin count is already zero. Caller bug.
	ErrPageNotPinned = errors.New("bufferpool: page is not pinned")

	// ErrPagePinned means an operation required a page to be unpinned
	// but found it pinned. The caller must unpin and retry.
	ErrPagePinned = errors.New("bufferpool: page is pinned")

	// ErrBadBuffer means an internal invariant was violated. It signals
	// a bug in the manager itself, not a recoverable caller error.
	ErrBadBuffer = errors.New("bufferpool: frame table is corrupt")
)

// File is the on-disk collaborator the pool reads and writes through.
// Implemented by *storage.DataFile.
type File interface {
	// Key returns a stable identity, unique per underlying file.
	Key() string
	ReadPage(pageID uint32, dst []byte) error
	WritePage(pageID uint32, src []byte) error
	AllocatePage() (uint32, error)
	DeletePage(pageID uint32) error
}

var _ File = (*storage.DataFile)(nil)

// Manager is a fixed-size buffer pool mediating between on-disk pages
// and in-memory frames. Frames are page-sized slabs in pool, addressed
// by index; desc is the parallel descriptor table; table maps resident
// (file, page) pairs to frame indices.
//
// The manager is single-threaded: callers running it from multiple
// goroutines must serialize every operation externally (one lock around
// the whole manager), since victim selection mutates several frames'
// metadata as one logical step. Callers must pin (Fetch/Alloc) before
// touching frame content and unpin exactly once per pin.
type Manager struct {
	pool  [][]byte
	desc  []frameDesc
	table pageTable
	hand  int
}

// NewManager creates a pool with the given number of frames.
func NewManager(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Manager{
		pool:  make([][]byte, capacity),
		desc:  make([]frameDesc, capacity),
		table: newPageTable(capacity),
		// Start just behind frame 0: the first sweep begins there.
		hand: capacity - 1,
	}
	for i := range m.pool {
		m.pool[i] = make([]byte, storage.PageSize)
	}
	return m
}

// Capacity returns the number of frames in the pool.
func (m *Manager) Capacity() int { return len(m.pool) }

// FetchPage returns the frame holding (file, pageID), pinned. On a hit
// the pin count is bumped and the ref bit set. On a miss a frame is
// claimed from the clock sweep (possibly evicting a victim, write-back
// included) and the page is read from disk into it.
//
// The returned slice aliases the frame: it is valid until the matching
// Unpin, and callers that mutate it must unpin with markDirty=true.
func (m *Manager) FetchPage(file File, pageID uint32) ([]byte, error) {
	tag := pageTag{fileKey: file.Key(), pageID: pageID}

	if frameID, ok := m.table.lookup(tag); ok {
		d := &m.desc[frameID]
		d.pin++
		d.ref = true
		return m.pool[frameID], nil
	}

	frameID, err := m.allocFrame()
	if err != nil {
		return nil, err
	}
	if err := file.ReadPage(pageID, m.pool[frameID]); err != nil {
		// allocFrame left the slot invalid; it stays free.
		return nil, err
	}

	d := &m.desc[frameID]
	d.file = file
	d.pageID = pageID
	d.valid = true
	d.dirty = false
	d.ref = true
	d.pin = 1
	if err := m.table.insert(tag, frameID); err != nil {
		d.reset()
		return nil, err
	}
	return m.pool[frameID], nil
}

// UnpinPage releases one pin on (file, pageID). markDirty records that
// the caller mutated the frame; the dirty flag is only ever cleared by
// a successful write-back, never here. Unpinning a page that is not
// resident or not pinned fails with ErrPageNotPinned.
func (m *Manager) UnpinPage(file File, pageID uint32, markDirty bool) error {
	tag := pageTag{fileKey: file.Key(), pageID: pageID}
	frameID, ok := m.table.lookup(tag)
	if !ok {
		return ErrPageNotPinned
	}
	d := &m.desc[frameID]
	if d.pin == 0 {
		return ErrPageNotPinned
	}
	d.pin--
	if markDirty {
		d.dirty = true
	}
	return nil
}

// AllocPage materializes a brand-new page on disk and installs it in a
// frame: valid, pinned once, clean, recently referenced. The caller is
// expected to populate the returned frame and eventually unpin it.
func (m *Manager) AllocPage(file File) (uint32, []byte, error) {
	pageID, err := file.AllocatePage()
	if err != nil {
		return 0, nil, err
	}
	frameID, err := m.allocFrame()
	if err != nil {
		// Give the fresh on-disk page back so it is not leaked.
		_ = file.DeletePage(pageID)
		return 0, nil, err
	}

	// The slab may hold a previous occupant's bytes; the new page is
	// zeroed on disk, so zero the frame instead of re-reading it.
	clear(m.pool[frameID])

	d := &m.desc[frameID]
	d.file = file
	d.pageID = pageID
	d.valid = true
	d.dirty = false
	d.ref = true
	d.pin = 1
	if err := m.table.insert(d.tag(), frameID); err != nil {
		d.reset()
		return 0, nil, err
	}
	return pageID, m.pool[frameID], nil
}

// DisposePage deletes (file, pageID) from disk, force-clearing its
// frame first if resident. The caller requesting deletion is treated as
// authoritative: a still-pinned frame is cleared anyway, and any
// outstanding frame slice must no longer be used.
func (m *Manager) DisposePage(file File, pageID uint32) error {
	tag := pageTag{fileKey: file.Key(), pageID: pageID}
	if frameID, ok := m.table.lookup(tag); ok {
		m.table.remove(tag)
		m.desc[frameID].reset()
	}
	return file.DeletePage(pageID)
}

// FlushFile evicts every resident page of file, writing back the dirty
// ones. It fails with ErrPagePinned (and stops) if any of the file's
// pages is still pinned; the caller must unpin and retry. An invalid
// frame claiming ownership of file fails with ErrBadBuffer.
// Used before a file is closed or dropped from the pool.
func (m *Manager) FlushFile(file File) error {
	key := file.Key()
	for i := range m.desc {
		d := &m.desc[i]
		if !d.valid {
			if d.file != nil && d.file.Key() == key {
				return ErrBadBuffer
			}
			continue
		}
		if d.file.Key() != key {
			continue
		}
		if d.pin > 0 {
			return ErrPagePinned
		}
		if d.dirty {
			slog.Debug("bufferpool: flushing dirty page",
				"frame", i, "file", key, "page", d.pageID)
			if err := d.file.WritePage(d.pageID, m.pool[i]); err != nil {
				return err
			}
			d.dirty = false
		}
		m.table.remove(d.tag())
		d.reset()
	}
	return nil
}
