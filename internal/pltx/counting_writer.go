package pltx

import "io"

// countingWriter wraps an io.Writer and tracks the number of bytes written
// through it, so callers can record output offsets without a separate Seek.
type countingWriter struct {
	w    io.Writer
	size uint64
}

func newCountingWriter(w io.Writer) *countingWriter {
	return &countingWriter{w: w}
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.size += uint64(n)
	return n, err
}

func (w *countingWriter) Size() uint64 {
	return w.size
}
