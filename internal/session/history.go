package session

// HistoryCapacity is the number of draft snapshots kept for undo.
const HistoryCapacity = 20

// History is a bounded stack of draft values, most recent last. When full,
// pushing drops the oldest snapshot.
type History struct {
	items []string
}

// Push records value unless it equals the most recent snapshot.
func (h *History) Push(value string) {
	if n := len(h.items); n > 0 && h.items[n-1] == value {
		return
	}
	h.items = append(h.items, value)
	if len(h.items) > HistoryCapacity {
		h.items = h.items[len(h.items)-HistoryCapacity:]
	}
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (string, bool) {
	n := len(h.items)
	if n == 0 {
		return "", false
	}
	v := h.items[n-1]
	h.items = h.items[:n-1]
	return v, true
}

// Peek returns the most recent snapshot without removing it.
func (h *History) Peek() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	return h.items[len(h.items)-1], true
}

func (h *History) Len() int { return len(h.items) }
