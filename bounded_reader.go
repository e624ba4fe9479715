package lzma2

import (
	"errors"
	"io"
)

// boundedChunkReader caps reads to the declared packed size of one
// compressed chunk, so the range decoder cannot run into the next
// chunk's header. It must not outlive the chunk it was built for.
type boundedChunkReader struct {
	inStream  io.ByteReader
	remaining int
}

func newBoundedChunkReader(inStream io.ByteReader, packedSize int) *boundedChunkReader {
	return &boundedChunkReader{
		inStream:  inStream,
		remaining: packedSize,
	}
}

// ReadByte returns io.ErrUnexpectedEOF both when the chunk cap is
// exhausted and when the underlying stream ends early: the range decoder
// only reads when it still needs bits, so either case is a truncated
// chunk.
func (r *boundedChunkReader) ReadByte() (byte, error) {
	if r.remaining == 0 {
		return 0, io.ErrUnexpectedEOF
	}

	b, err := r.inStream.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return 0, err
	}

	r.remaining--

	return b, nil
}
