package writer

import "errors"

// ErrFull is returned when a MemWriter's limit would be exceeded.
var ErrFull = errors.New("writer: buffer limit reached")

// MemWriter captures output in memory, optionally bounded.
type MemWriter struct {
	Buf   []byte
	Limit int // 0 means unbounded
}

// Write appends p. With a limit set, a write that does not fit is
// rejected whole and nothing is appended.
func (w *MemWriter) Write(p []byte) (int, error) {
	if w.Limit > 0 && len(w.Buf)+len(p) > w.Limit {
		return 0, ErrFull
	}
	w.Buf = append(w.Buf, p...)
	return len(p), nil
}

// WriteString appends s under the same rules as Write.
func (w *MemWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Remaining reports how many bytes still fit, or -1 when unbounded.
func (w *MemWriter) Remaining() int {
	if w.Limit <= 0 {
		return -1
	}
	return w.Limit - len(w.Buf)
}

// Reset empties the buffer, keeping the limit.
func (w *MemWriter) Reset() {
	w.Buf = w.Buf[:0]
}
