package bufferpool

import (
	"fmt"
	"strings"
)

// FrameState is an observability snapshot of one frame's descriptor.
type FrameState struct {
	Frame  int
	Valid  bool
	File   string
	PageID uint32
	Pin    int32
	Dirty  bool
	Ref    bool
}

// PoolState is an observability snapshot of the whole pool.
type PoolState struct {
	Frames      []FrameState
	ValidFrames int
}

// DescribeState reports each frame's validity and ownership plus a
// count of valid frames. Diagnostics only; no state is modified.
func (m *Manager) DescribeState() PoolState {
	st := PoolState{Frames: make([]FrameState, len(m.desc))}
	for i := range m.desc {
		d := &m.desc[i]
		fs := FrameState{
			Frame: i,
			Valid: d.valid,
			Pin:   d.pin,
			Dirty: d.dirty,
			Ref:   d.ref,
		}
		if d.valid {
			fs.File = d.file.Key()
			fs.PageID = d.pageID
			st.ValidFrames++
		}
		st.Frames[i] = fs
	}
	return st
}

func (s PoolState) String() string {
	var b strings.Builder
	for _, f := range s.Frames {
		if !f.Valid {
			fmt.Fprintf(&b, "frame %d: invalid\n", f.Frame)
			continue
		}
		fmt.Fprintf(&b, "frame %d: file=%s page=%d pin=%d dirty=%t ref=%t\n",
			f.Frame, f.File, f.PageID, f.Pin, f.Dirty, f.Ref)
	}
	fmt.Fprintf(&b, "valid frames: %d/%d\n", s.ValidFrames, len(s.Frames))
	return b.String()
}
