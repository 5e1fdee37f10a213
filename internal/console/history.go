package console

import "sync"

// History is the navigation stack. The zero value is empty and ready to use.
type History struct {
	mu      sync.Mutex
	entries []string
}

// Push appends target.
func (h *History) Push(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, target)
}

// Replace overwrites the current entry, or pushes when empty.
func (h *History) Replace(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, target)
		return
	}
	h.entries[len(h.entries)-1] = target
}

// Back drops the current entry and returns the previous one. The second return is false when
// there is nothing to go back to.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Current returns the current entry, if any.
func (h *History) Current() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
