// Package storage persists snapshot byte streams as fixed-size pages
// spread over segmented files.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rowbase/rowbase/internal/bx"
)

const (
	// PageSize is the default page size (8 KiB).
	PageSize = 1 << 13
	// SegmentSize caps one segment file at 1 GiB.
	SegmentSize = 1 << 30
)

var (
	ErrBadPageSize = errors.New("storage: page size must be positive and divide the segment size")
	ErrNoData      = errors.New("storage: no pages on disk")
	ErrCorrupt     = errors.New("storage: stored blob length exceeds page data")
)

// FileSet names the segment files one table's data lives in.
type FileSet interface {
	OpenSegment(segNo int32) (*os.File, error)
}

var _ FileSet = (*LocalFileSet)(nil)

// LocalFileSet is a local directory + base file name. Segments are stored
// as: Base, Base.1, Base.2, ...
type LocalFileSet struct {
	Dir  string
	Base string
}

func (lfs LocalFileSet) OpenSegment(segNo int32) (*os.File, error) {
	name := lfs.Base
	if segNo > 0 {
		name = fmt.Sprintf("%s.%d", lfs.Base, segNo)
	}
	path := filepath.Join(lfs.Dir, name)
	if err := os.MkdirAll(lfs.Dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
}

// Remove deletes every segment of the set. Missing segments end the scan.
func (lfs LocalFileSet) Remove() error {
	for segNo := int32(0); ; segNo++ {
		name := lfs.Base
		if segNo > 0 {
			name = fmt.Sprintf("%s.%d", lfs.Base, segNo)
		}
		err := os.Remove(filepath.Join(lfs.Dir, name))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// StorageManager maps logical pageIDs onto (segment, offset) and moves
// whole pages between memory and disk.
type StorageManager struct {
	pageSize int
}

func NewStorageManager() *StorageManager {
	return &StorageManager{pageSize: PageSize}
}

// NewStorageManagerSize overrides the page size; it must divide SegmentSize.
func NewStorageManagerSize(pageSize int) (*StorageManager, error) {
	if pageSize <= 0 || SegmentSize%pageSize != 0 {
		return nil, ErrBadPageSize
	}
	return &StorageManager{pageSize: pageSize}, nil
}

func (sm *StorageManager) PageSize() int { return sm.pageSize }

func (sm *StorageManager) pagesPerSegment() int {
	return SegmentSize / sm.pageSize
}

func (sm *StorageManager) locate(pageID int32) (segNo int32, offset int64) {
	pps := int32(sm.pagesPerSegment())
	segNo = pageID / pps
	offset = int64(pageID%pps) * int64(sm.pageSize)
	return segNo, offset
}

// ReadPage reads exactly one page into dst. Bytes past EOF read as zero,
// so lazily initialized pages look like all-zero pages.
func (sm *StorageManager) ReadPage(fs FileSet, pageID int32, dst []byte) error {
	if len(dst) != sm.pageSize {
		return fmt.Errorf("storage: dst must be exactly %d bytes", sm.pageSize)
	}
	segNo, off := sm.locate(pageID)
	f, err := fs.OpenSegment(segNo)
	if err != nil {
		return err
	}
	defer closeFile(f)

	n, err := f.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		return err
	}
	for i := n; i < sm.pageSize; i++ {
		dst[i] = 0
	}
	return nil
}

// WritePage writes exactly one page from src at the location computed from
// pageID.
func (sm *StorageManager) WritePage(fs FileSet, pageID int32, src []byte) error {
	if len(src) != sm.pageSize {
		return fmt.Errorf("storage: src must be exactly %d bytes", sm.pageSize)
	}
	segNo, off := sm.locate(pageID)
	f, err := fs.OpenSegment(segNo)
	if err != nil {
		return err
	}
	defer closeFile(f)

	n, err := f.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != sm.pageSize {
		return io.ErrShortWrite
	}
	return nil
}

// CountPages computes total pages in a FileSet by scanning its segments.
func (sm *StorageManager) CountPages(fs FileSet) (uint32, error) {
	var total uint32
	for segNo := int32(0); ; segNo++ {
		f, err := fs.OpenSegment(segNo)
		if err != nil {
			if os.IsNotExist(err) {
				break
			}
			return 0, err
		}
		info, statErr := f.Stat()
		_ = f.Close()
		if statErr != nil {
			return 0, statErr
		}
		size := info.Size()
		if size <= 0 {
			break
		}
		total += uint32(size / int64(sm.pageSize))
	}
	return total, nil
}

// WriteBlob stores an arbitrary byte stream: a u32 length prefix followed
// by the payload, chunked across pages, the last page zero-padded. Any
// previous blob in the set is overwritten in place.
func (sm *StorageManager) WriteBlob(fs FileSet, blob []byte) error {
	framed := bx.AppendU32(make([]byte, 0, 4+len(blob)), uint32(len(blob)))
	framed = append(framed, blob...)

	page := make([]byte, sm.pageSize)
	for pageID := int32(0); len(framed) > 0; pageID++ {
		n := copy(page, framed)
		for i := n; i < sm.pageSize; i++ {
			page[i] = 0
		}
		if err := sm.WritePage(fs, pageID, page); err != nil {
			return err
		}
		framed = framed[n:]
	}
	return nil
}

// ReadBlob reads back the stream stored by WriteBlob.
func (sm *StorageManager) ReadBlob(fs FileSet) ([]byte, error) {
	pages, err := sm.CountPages(fs)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, ErrNoData
	}

	page := make([]byte, sm.pageSize)
	if err := sm.ReadPage(fs, 0, page); err != nil {
		return nil, err
	}
	total := int(bx.U32(page))
	if total > int(pages)*sm.pageSize-4 {
		return nil, ErrCorrupt
	}

	out := make([]byte, 0, total)
	out = append(out, page[4:4+min(total, sm.pageSize-4)]...)
	for pageID := int32(1); len(out) < total; pageID++ {
		if err := sm.ReadPage(fs, pageID, page); err != nil {
			return nil, err
		}
		out = append(out, page[:min(total-len(out), sm.pageSize)]...)
	}
	return out, nil
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		fmt.Println(err)
	}
}
