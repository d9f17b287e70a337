package bufferpool

// pageTag uniquely identifies a page across all files sharing the pool.
type pageTag struct {
	fileKey string
	pageID  uint32
}

// frameDesc is the per-frame metadata, parallel to the frame pool.
// Frames are always addressed by index; descriptors never outlive
// the slot they describe.
type frameDesc struct {
	file   File
	pageID uint32
	pin    int32
	valid  bool
	dirty  bool
	ref    bool
}

func (d *frameDesc) tag() pageTag {
	return pageTag{fileKey: d.file.Key(), pageID: d.pageID}
}

// reset returns the descriptor to its initial invalid state:
// no owner, clean, unpinned.
func (d *frameDesc) reset() {
	*d = frameDesc{}
}
