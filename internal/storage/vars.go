package storage

import "errors"

const (
	OneKB = 1 << 10
	OneMB = 1 << 20
	OneGB = 1 << 30

	SegmentSize       = 1 << 30                // 1,073,741,824 (1 GiB)
	PageSize          = 1 << 13                // 8,192 (8 KiB)
	MaxPagePerSegment = SegmentSize / PageSize // 131,072 pages/segment
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrPageNotFound = errors.New("storage: page not found")
	ErrWrongSize    = errors.New("storage: buffer size != PageSize")
)
