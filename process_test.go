package lzma2

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// Rep distances survive a state reset, so a dictionary reset can leave
// them pointing past the rebuilt history. Every path that dereferences
// a rep distance must reject it before touching the window.
func TestProcessRepDistanceBeyondHistory(t *testing.T) {
	r := require.New(t)

	seed := func(rep0, rep1 uint32) *decoderState {
		w := newWindow(io.Discard, lzmaDicMin)
		r.NoError(w.AppendBytes([]byte("ab")))

		s := newDecoderState(w, 0, 0, 0)
		s.state = 7
		s.rep0 = rep0
		s.rep1 = rep1
		s.SetUnpackedSize(1)

		return s
	}

	t.Run("short_rep", func(t *testing.T) {
		s := seed(9, 0)

		// code word 0xC0000000 decodes 1 1 0 0: a short rep
		rc, err := newRangeDecoder(bytes.NewReader([]byte{0x00, 0xC0, 0x00, 0x00, 0x00}))
		r.NoError(err)

		r.ErrorIs(s.process(rc), ErrDistanceOutOfRange)
	})

	t.Run("long_rep", func(t *testing.T) {
		s := seed(0, 9)

		// code word 0xE0000000 decodes 1 1 1 0: a rep match reusing
		// the second-most-recent distance
		rc, err := newRangeDecoder(bytes.NewReader([]byte{0x00, 0xE0, 0x00, 0x00, 0x00}))
		r.NoError(err)

		r.ErrorIs(s.process(rc), ErrDistanceOutOfRange)
	})

	t.Run("matched_literal", func(t *testing.T) {
		s := seed(9, 0)

		// a zero code word decodes a literal; state 7 selects matched
		// mode, which reads the byte at the stale rep distance
		rc, err := newRangeDecoder(bytes.NewReader(make([]byte, 5)))
		r.NoError(err)

		r.ErrorIs(s.process(rc), ErrDistanceOutOfRange)
	})
}
