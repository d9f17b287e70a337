package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var zeroPage [PageSize]byte

// DataFile stores fixed-size pages across segment files named
// Base, Base.1, Base.2, ... inside Dir. Segments are opened per
// operation, so a DataFile handle owns no file descriptors.
type DataFile struct {
	dir  string
	base string
	key  string

	pageCount uint32
	free      []uint32 // deleted page ids, reused by AllocatePage
}

// Open binds a DataFile to dir/base and counts the pages already on disk.
// The free list of deleted pages is in-memory only; after a reopen,
// previously deleted pages simply stay allocated (and zeroed).
func Open(dir, base string) (*DataFile, error) {
	f := &DataFile{
		dir:  dir,
		base: base,
		key:  filepath.Join(filepath.Clean(dir), base),
	}
	n, err := f.countPages()
	if err != nil {
		return nil, err
	}
	f.pageCount = n
	return f, nil
}

// Key returns a stable identity for this file, unique per dir/base.
func (f *DataFile) Key() string { return f.key }

// PageCount returns the number of pages allocated so far.
func (f *DataFile) PageCount() uint32 { return f.pageCount }

func (f *DataFile) segmentPath(segNo int32) string {
	name := f.base
	if segNo > 0 {
		name = fmt.Sprintf("%s.%d", f.base, segNo)
	}
	return filepath.Join(f.dir, name)
}

func (f *DataFile) openSegment(segNo int32) (*os.File, error) {
	if err := os.MkdirAll(f.dir, FileMode0755); err != nil {
		return nil, err
	}
	// RDWR | CREATE (no truncate)
	return os.OpenFile(f.segmentPath(segNo), os.O_RDWR|os.O_CREATE, FileMode0644)
}

// locate maps a logical pageID -> (segment, offset).
func locate(pageID uint32) (segNo int32, off int64) {
	segNo = int32(pageID / MaxPagePerSegment)
	off = int64(pageID%MaxPagePerSegment) * PageSize
	return segNo, off
}

// ReadPage reads exactly one page (PageSize bytes) into dst.
// If the underlying segment is shorter than offset+PageSize, the
// remainder is zero-filled; allocated pages may be sparse on disk.
func (f *DataFile) ReadPage(pageID uint32, dst []byte) error {
	if len(dst) != PageSize {
		return ErrWrongSize
	}
	if pageID >= f.pageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageNotFound, pageID, f.pageCount)
	}
	segNo, off := locate(pageID)
	sf, err := f.openSegment(segNo)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()

	n, err := sf.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		return err
	}
	for i := n; i < PageSize; i++ {
		dst[i] = 0
	}
	return nil
}

// WritePage writes exactly one page (PageSize bytes) from src to the
// location computed from pageID.
func (f *DataFile) WritePage(pageID uint32, src []byte) error {
	if len(src) != PageSize {
		return ErrWrongSize
	}
	if pageID >= f.pageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageNotFound, pageID, f.pageCount)
	}
	segNo, off := locate(pageID)
	sf, err := f.openSegment(segNo)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()

	n, err := sf.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != PageSize {
		return io.ErrShortWrite
	}
	return nil
}

// AllocatePage materializes a new zeroed page on disk and returns its id.
// Deleted page ids are reused before the file is extended.
func (f *DataFile) AllocatePage() (uint32, error) {
	if n := len(f.free); n > 0 {
		pageID := f.free[n-1]
		f.free = f.free[:n-1]
		return pageID, nil
	}

	pageID := f.pageCount
	f.pageCount++
	if err := f.WritePage(pageID, zeroPage[:]); err != nil {
		f.pageCount--
		return 0, err
	}
	return pageID, nil
}

// DeletePage zeroes the on-disk page and makes its id reusable.
func (f *DataFile) DeletePage(pageID uint32) error {
	if pageID >= f.pageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageNotFound, pageID, f.pageCount)
	}
	for _, id := range f.free {
		if id == pageID {
			return fmt.Errorf("%w: page %d already deleted", ErrPageNotFound, pageID)
		}
	}
	if err := f.WritePage(pageID, zeroPage[:]); err != nil {
		return err
	}
	f.free = append(f.free, pageID)
	return nil
}

// countPages computes total pages by scanning segment files.
// Segments are stat-ed, not opened, so counting never creates files.
func (f *DataFile) countPages() (uint32, error) {
	var total uint32
	for segNo := int32(0); ; segNo++ {
		info, err := os.Stat(f.segmentPath(segNo))
		if err != nil {
			if os.IsNotExist(err) {
				break
			}
			return 0, err
		}
		total += uint32(info.Size() / PageSize)
	}
	return total, nil
}
