package lzma2

import (
	"fmt"
	"io"
)

type rangeDecoder struct {
	inStream io.ByteReader

	Range     uint32
	Code      uint32
	Corrupted bool
}

// newRangeDecoder consumes the 5-byte initialization prefix of a
// compressed chunk. The arithmetic-coding state does not carry across
// chunks, so a fresh decoder is built for every chunk.
func newRangeDecoder(inStream io.ByteReader) (*rangeDecoder, error) {
	d := &rangeDecoder{
		inStream: inStream,

		Range: 0xFFFFFFFF,
	}

	return d, d.init()
}

func (d *rangeDecoder) init() error {
	b, err := d.inStream.ReadByte()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStreamTooShort, err)
	}
	if b != 0 {
		return fmt.Errorf("%w: range coder first byte is %d", ErrCorrupted, b)
	}

	for i := 0; i < 4; i++ {
		b, err = d.inStream.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStreamTooShort, err)
		}

		d.Code = (d.Code << 8) | uint32(b)
	}

	return nil
}

func (d *rangeDecoder) DecodeBit(v *prob) (uint32, error) {
	rang := d.Range
	code := d.Code
	bound := (rang >> kNumBitModelTotalBits) * uint32(*v)

	var symbol uint32

	if code < bound {
		*v += ((1 << kNumBitModelTotalBits) - *v) >> kNumMoveBits
		rang = bound
		symbol = 0
	} else {
		*v -= *v >> kNumMoveBits
		code -= bound
		rang -= bound
		symbol = 1
	}

	// Normalize
	if rang < kTopValue {
		b, err := d.inStream.ReadByte()
		if err != nil {
			return 0, err
		}

		rang <<= 8
		code = (code << 8) | uint32(b)
	}

	d.Range = rang
	d.Code = code

	return symbol, nil
}

func (d *rangeDecoder) DecodeDirectBits(numBits int) (uint32, error) {
	var res uint32
	rang := d.Range
	code := d.Code

	for ; numBits > 0; numBits-- {
		rang >>= 1
		code -= rang
		t := 0 - (code >> 31)
		code += rang & t

		if code == rang {
			d.Corrupted = true
		}

		res <<= 1
		res += t + 1

		// Normalize
		if rang < kTopValue {
			b, err := d.inStream.ReadByte()
			if err != nil {
				return 0, err
			}

			rang <<= 8
			code = (code << 8) | uint32(b)
		}
	}

	d.Range = rang
	d.Code = code

	return res, nil
}
