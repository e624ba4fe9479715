package lzma2

import "io"

// lzWindow is the sliding dictionary. Decoded bytes accumulate in a
// circular buffer and are flushed to the sink whenever the buffer wraps;
// the unflushed region is always buf[0:pos].
type lzWindow struct {
	outStream io.Writer

	buf    []byte
	pos    uint32
	size   uint32
	isFull bool

	totalPos uint32
}

func newWindow(outStream io.Writer, dictSize uint32) *lzWindow {
	return &lzWindow{
		outStream: outStream,

		buf:  make([]byte, dictSize),
		size: dictSize,
	}
}

func (w *lzWindow) PutByte(b byte) error {
	w.totalPos++
	w.buf[w.pos] = b
	w.pos++

	if w.pos == w.size {
		if _, err := w.outStream.Write(w.buf); err != nil {
			return err
		}

		w.pos = 0
		w.isFull = true
	}

	return nil
}

func (w *lzWindow) AppendBytes(p []byte) error {
	for _, b := range p {
		if err := w.PutByte(b); err != nil {
			return err
		}
	}

	return nil
}

func (w *lzWindow) GetByte(dist uint32) byte {
	i := w.size - dist + w.pos

	if dist <= w.pos {
		i = w.pos - dist
	}

	return w.buf[i]
}

// CopyMatch copies byte-by-byte so the source may overlap the bytes
// written by this same call (dist == 1 replicates the previous byte).
func (w *lzWindow) CopyMatch(dist, length uint32) error {
	for ; length > 0; length-- {
		if err := w.PutByte(w.GetByte(dist)); err != nil {
			return err
		}
	}

	return nil
}

func (w *lzWindow) CheckDistance(dist uint32) bool {
	return dist <= w.pos || w.isFull
}

func (w *lzWindow) IsEmpty() bool {
	return w.pos == 0 && !w.isFull
}

// Reset flushes bytes not yet delivered to the sink and drops all
// history. Distances decoded afterwards may only reference bytes
// produced after this call.
func (w *lzWindow) Reset() error {
	if w.pos > 0 {
		if _, err := w.outStream.Write(w.buf[:w.pos]); err != nil {
			return err
		}
	}

	w.pos = 0
	w.isFull = false
	w.totalPos = 0

	return nil
}

// Finish flushes the remaining history to the sink. Called exactly once,
// at end of stream.
func (w *lzWindow) Finish() error {
	if w.pos == 0 {
		return nil
	}

	_, err := w.outStream.Write(w.buf[:w.pos])

	return err
}
