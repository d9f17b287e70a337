package bufferpool

// pageTable maps (file, pageID) -> frame index for resident pages.
// A lookup miss is a normal outcome, reported through the ok flag.
type pageTable struct {
	m map[pageTag]int
}

func newPageTable(capacity int) pageTable {
	// Sized ~1.25x pool capacity so the table never rehashes while full.
	return pageTable{m: make(map[pageTag]int, capacity+capacity/4)}
}

func (t pageTable) lookup(tag pageTag) (int, bool) {
	frameID, ok := t.m[tag]
	return frameID, ok
}

// insert records tag -> frameID. A duplicate key means the manager
// failed to remove a stale entry first, which is an internal bug.
func (t pageTable) insert(tag pageTag, frameID int) error {
	if _, ok := t.m[tag]; ok {
		return ErrBadBuffer
	}
	t.m[tag] = frameID
	return nil
}

// remove drops the entry for tag; removing an absent key is a no-op.
func (t pageTable) remove(tag pageTag) {
	delete(t.m, tag)
}

func (t pageTable) size() int { return len(t.m) }
