package bufferpool

import "log/slog"

// advanceClock moves the clock hand one frame forward with wraparound.
func (m *Manager) advanceClock() {
	m.hand = (m.hand + 1) % len(m.desc)
}

// allocFrame runs the CLOCK (second-chance) sweep and returns the index
// of a frame ready for reuse. Invalid frames are taken immediately; a set
// ref bit buys a frame one more revolution; pinned frames are never
// selected. A dirty victim is written back through its owning file
// before its index entry is removed and its descriptor is reset, so a
// dirty page can never be lost and the table never points at a reused
// frame.
//
// Up to 2 sweeps: the first pass may only clear ref bits, the second
// pass then finds those frames eligible. If everything is pinned the
// sweep terminates with ErrPoolExhausted instead of spinning.
func (m *Manager) allocFrame() (int, error) {
	for i := 0; i < 2*len(m.desc); i++ {
		m.advanceClock()
		d := &m.desc[m.hand]

		if !d.valid {
			return m.hand, nil
		}
		if d.ref {
			// Second chance.
			d.ref = false
			continue
		}
		if d.pin > 0 {
			continue
		}

		// Victim found.
		if d.dirty {
			slog.Debug("bufferpool: writing back dirty victim",
				"frame", m.hand, "file", d.file.Key(), "page", d.pageID)
			if err := d.file.WritePage(d.pageID, m.pool[m.hand]); err != nil {
				return -1, err
			}
			d.dirty = false
		}
		m.table.remove(d.tag())
		d.reset()
		return m.hand, nil
	}

	return -1, ErrPoolExhausted
}
