package diarize

// historyRing is a fixed-capacity FIFO of analytics entries that
// overwrites the oldest entry when full. It carries no lock of its
// own; the Diarizer's mutex serializes all access.
type historyRing struct {
	buf        []HistoryEntry
	head, tail int64
}

func newHistoryRing(capacity int) *historyRing {
	return &historyRing{buf: make([]HistoryEntry, capacity)}
}

func (h *historyRing) add(e HistoryEntry) {
	h.buf[h.tail%int64(len(h.buf))] = e
	h.tail++
	if h.tail-h.head > int64(len(h.buf)) {
		h.head++
	}
}

func (h *historyRing) len() int {
	return int(h.tail - h.head)
}

// last returns up to n entries in oldest-to-newest order.
func (h *historyRing) last(n int) []HistoryEntry {
	avail := h.len()
	if n > avail {
		n = avail
	}
	if n <= 0 {
		return nil
	}
	out := make([]HistoryEntry, n)
	start := h.tail - int64(n)
	for i := range out {
		out[i] = h.buf[(start+int64(i))%int64(len(h.buf))]
	}
	return out
}
