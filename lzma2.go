// Package lzma2 implements a streaming decompressor for the raw LZMA2
// chunk format: the classic LZMA bitstream wrapped in a framing layer of
// chunks with periodic state and dictionary resets.
package lzma2

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	endOfStreamCode         = 0x00
	uncompressedResetDict   = 0x01
	uncompressedNoResetDict = 0x02
)

// Decode reads an LZMA2 chunk stream from inStream and writes the
// decompressed bytes to outStream. It returns on the end-of-stream
// marker, or with an error on the first malformed field.
func Decode(inStream io.Reader, outStream io.Writer) error {
	return DecodeWithDictSize(inStream, outStream, 0)
}

// DecodeWithDictSize is Decode with an explicit dictionary size in
// bytes. A dictSize of 0 selects the 8 MiB default; sizes below the
// format minimum are raised to it.
func DecodeWithDictSize(inStream io.Reader, outStream io.Writer, dictSize int) error {
	size, err := validateDictSize(dictSize)
	if err != nil {
		return err
	}

	d := &streamDecoder{
		inStream:  bufio.NewReader(inStream),
		outWindow: newWindow(outStream, size),
	}
	d.s = newDecoderState(d.outWindow, 0, 0, 0)

	return d.decode()
}

type streamDecoder struct {
	inStream  *bufio.Reader
	outWindow *lzWindow
	s         *decoderState

	header [2]byte
}

func validateDictSize(dictSize int) (uint32, error) {
	if dictSize == 0 {
		return defaultDictSize, nil
	}

	if dictSize < 0 || uint64(dictSize) > lzmaDicMax {
		return 0, fmt.Errorf("%w: %d", ErrDictOutOfRange, dictSize)
	}

	if dictSize < lzmaDicMin {
		return lzmaDicMin, nil
	}

	return uint32(dictSize), nil
}

func (d *streamDecoder) decode() error {
	for {
		status, err := d.inStream.ReadByte()
		if err != nil {
			return fmt.Errorf("lzma2: expected new status: %w", unexpectedEOF(err))
		}

		if status == endOfStreamCode {
			log.Debug("lzma2: end of stream")

			break
		}

		switch {
		case status == uncompressedResetDict:
			err = d.parseUncompressed(true)
		case status == uncompressedNoResetDict:
			err = d.parseUncompressed(false)
		case status&0x80 != 0:
			err = d.parseLZMA(status)
		default:
			err = fmt.Errorf("%w: %d", ErrInvalidStatus, status)
		}

		if err != nil {
			return err
		}
	}

	return d.outWindow.Finish()
}

func (d *streamDecoder) parseUncompressed(resetDict bool) error {
	unpackedSize, err := d.readSizeField("unpacked size")
	if err != nil {
		return err
	}
	unpackedSize++

	log.WithFields(logrus.Fields{
		"unpacked_size": unpackedSize,
		"reset_dict":    resetDict,
	}).Debug("lzma2: uncompressed chunk")

	if resetDict {
		if err = d.outWindow.Reset(); err != nil {
			return err
		}
	}

	buf := make([]byte, unpackedSize)
	if _, err = io.ReadFull(d.inStream, buf); err != nil {
		return fmt.Errorf("lzma2: expected %d uncompressed bytes: %w", unpackedSize, unexpectedEOF(err))
	}

	return d.outWindow.AppendBytes(buf)
}

func (d *streamDecoder) parseLZMA(status byte) error {
	resetDict, resetState, resetProps := decodeResetLevel((status >> 5) & 0x3)

	unpackedSize, err := d.readSizeField("unpacked size")
	if err != nil {
		return err
	}
	unpackedSize = (uint32(status&0x1F)<<16 | unpackedSize) + 1

	packedSize, err := d.readSizeField("packed size")
	if err != nil {
		return err
	}
	packedSize++

	log.WithFields(logrus.Fields{
		"unpacked_size": unpackedSize,
		"packed_size":   packedSize,
		"reset_dict":    resetDict,
		"reset_state":   resetState,
		"reset_props":   resetProps,
	}).Debug("lzma2: compressed chunk")

	if resetDict {
		if err = d.outWindow.Reset(); err != nil {
			return err
		}
	}

	if resetState {
		lc, lp, pb := d.s.lc, d.s.lp, d.s.pb

		if resetProps {
			var b byte

			b, err = d.inStream.ReadByte()
			if err != nil {
				return fmt.Errorf("lzma2: expected new properties: %w", unexpectedEOF(err))
			}

			lc, lp, pb, err = decodeProperties(b)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{"lc": lc, "lp": lp, "pb": pb}).Debug("lzma2: new properties")
		}

		d.s.ResetState(lc, lp, pb)
	}

	d.s.SetUnpackedSize(unpackedSize)

	rc, err := newRangeDecoder(newBoundedChunkReader(d.inStream, int(packedSize)))
	if err != nil {
		return err
	}

	return d.s.process(rc)
}

// readSizeField reads a raw 16-bit big-endian size field. Callers add
// one after assembling any high bits: wire sizes are stored minus one.
func (d *streamDecoder) readSizeField(name string) (uint32, error) {
	if _, err := io.ReadFull(d.inStream, d.header[:]); err != nil {
		return 0, fmt.Errorf("lzma2: expected %s: %w", name, unexpectedEOF(err))
	}

	return uint32(d.header[0])<<8 | uint32(d.header[1]), nil
}

// Levels 1 and 2 both reset the decoder state and keep the properties;
// only level 3 carries a new property byte and resets the dictionary.
func decodeResetLevel(level byte) (resetDict, resetState, resetProps bool) {
	switch level {
	case 1, 2:
		resetState = true
	case 3:
		resetDict, resetState, resetProps = true, true, true
	}

	return
}

func decodeProperties(p byte) (lc, lp, pb uint8, err error) {
	if p >= (9 * 5 * 5) {
		return 0, 0, 0, fmt.Errorf("%w: %d must be < 225", ErrIncorrectProperties, p)
	}

	lc = p % 9
	p /= 9
	lp = p % 5
	pb = p / 5

	if lc+lp > 4 {
		return 0, 0, 0, fmt.Errorf("%w: lc + lp (%d + %d) must be <= 4", ErrIncorrectProperties, lc, lp)
	}

	return lc, lp, pb, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
