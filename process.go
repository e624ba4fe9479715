package lzma2

import (
	"errors"
	"fmt"
	"io"
)

// process decodes symbols until exactly the declared unpacked size has
// been produced. A bitstream that runs out earlier, or a distance that
// points before the dictionary history, is corruption.
func (s *decoderState) process(rc *rangeDecoder) error {
	for s.unpackedSize > 0 {
		if err := s.decodeOperation(rc); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: packed data exhausted with %d bytes left",
					ErrCorrupted, s.unpackedSize)
			}

			return err
		}
	}

	if rc.Corrupted {
		return fmt.Errorf("%w: range decoder detected corruption", ErrCorrupted)
	}

	return nil
}

func (s *decoderState) decodeOperation(rc *rangeDecoder) error {
	posState := s.outWindow.totalPos & ((1 << s.pb) - 1)
	state2 := (s.state << kNumPosBitsMax) + posState

	bit, err := rc.DecodeBit(&s.isMatch[state2])
	if err != nil {
		return err
	}
	if bit == 0 { // literal
		if err = s.decodeLiteral(rc); err != nil {
			return err
		}

		s.state = stateUpdateLiteral(s.state)
		s.unpackedSize--

		return nil
	}

	var length uint32

	bit, err = rc.DecodeBit(&s.isRep[s.state])
	if err != nil {
		return err
	}
	if bit == 0 { // simple match
		s.rep3, s.rep2, s.rep1 = s.rep2, s.rep1, s.rep0

		length, err = s.lenDecoder.Decode(rc, posState)
		if err != nil {
			return err
		}

		s.state = stateUpdateMatch(s.state)

		s.rep0, err = s.decodeDistance(rc, length)
		if err != nil {
			return err
		}

		if s.rep0 == 0xFFFFFFFF {
			// The end-of-stream marker never appears in LZMA2 chunks,
			// every chunk declares its exact unpacked size.
			return fmt.Errorf("%w: unexpected end-of-stream marker", ErrCorrupted)
		}

		// the copy distance is rep0+1: it must not exceed the bytes
		// produced since the last dictionary reset
		if s.rep0 >= s.outWindow.size || !s.outWindow.CheckDistance(s.rep0+1) {
			return fmt.Errorf("%w: distance %d", ErrDistanceOutOfRange, s.rep0)
		}
	} else { // rep match
		if s.outWindow.IsEmpty() {
			return fmt.Errorf("%w: rep match with empty dictionary", ErrCorrupted)
		}

		bit, err = rc.DecodeBit(&s.isRepG0[s.state])
		if err != nil {
			return err
		}
		if bit == 0 {
			bit, err = rc.DecodeBit(&s.isRep0Long[state2])
			if err != nil {
				return err
			}
			if bit == 0 { // short rep match
				if !s.outWindow.CheckDistance(s.rep0 + 1) {
					return fmt.Errorf("%w: distance %d", ErrDistanceOutOfRange, s.rep0)
				}

				s.state = stateUpdateShortRep(s.state)

				if err = s.outWindow.PutByte(s.outWindow.GetByte(s.rep0 + 1)); err != nil {
					return err
				}

				s.unpackedSize--

				return nil
			}
		} else {
			var dist uint32

			bit, err = rc.DecodeBit(&s.isRepG1[s.state])
			if err != nil {
				return err
			}
			if bit == 0 {
				dist = s.rep1
			} else {
				bit, err = rc.DecodeBit(&s.isRepG2[s.state])
				if err != nil {
					return err
				}
				if bit == 0 {
					dist = s.rep2
				} else {
					dist = s.rep3
					s.rep3 = s.rep2
				}

				s.rep2 = s.rep1
			}

			s.rep1 = s.rep0
			s.rep0 = dist
		}

		// reused distances survive state resets but the dictionary may
		// have been reset since they were recorded: they must still lie
		// inside the history accumulated since the last reset
		if !s.outWindow.CheckDistance(s.rep0 + 1) {
			return fmt.Errorf("%w: distance %d", ErrDistanceOutOfRange, s.rep0)
		}

		length, err = s.repLenDecoder.Decode(rc, posState)
		if err != nil {
			return err
		}

		s.state = stateUpdateRep(s.state)
	}

	length += kMatchMinLen
	if length > s.unpackedSize {
		return fmt.Errorf("%w: match length %d exceeds remaining unpacked size %d",
			ErrCorrupted, length, s.unpackedSize)
	}

	if err = s.outWindow.CopyMatch(s.rep0+1, length); err != nil {
		return err
	}

	s.unpackedSize -= length

	return nil
}

func (s *decoderState) decodeLiteral(rc *rangeDecoder) error {
	prevByte := uint32(0)
	if !s.outWindow.IsEmpty() {
		prevByte = uint32(s.outWindow.GetByte(1))
	}

	symbol := uint32(1)
	litState := ((s.outWindow.totalPos & ((1 << s.lp) - 1)) << s.lc) + (prevByte >> (8 - s.lc))
	probs := s.litProbs[(uint32(0x300) * litState):]

	if s.state >= 7 { // matched literal
		if !s.outWindow.CheckDistance(s.rep0 + 1) {
			return fmt.Errorf("%w: distance %d", ErrDistanceOutOfRange, s.rep0)
		}

		matchByte := s.outWindow.GetByte(s.rep0 + 1)

		for symbol < 0x100 {
			matchBit := uint32((matchByte >> 7) & 1)
			matchByte <<= 1

			bit, err := rc.DecodeBit(&probs[((1+matchBit)<<8)+symbol])
			if err != nil {
				return err
			}

			symbol = (symbol << 1) | bit
			if matchBit != bit {
				break
			}
		}
	}

	for symbol < 0x100 {
		bit, err := rc.DecodeBit(&probs[symbol])
		if err != nil {
			return err
		}

		symbol = (symbol << 1) | bit
	}

	return s.outWindow.PutByte(byte(symbol - 0x100))
}

func (s *decoderState) decodeDistance(rc *rangeDecoder, length uint32) (uint32, error) {
	lenState := length
	if lenState > (kNumLenToPosStates - 1) {
		lenState = kNumLenToPosStates - 1
	}

	posSlot, err := s.posSlotDecoder[lenState].Decode(rc)
	if err != nil {
		return 0, err
	}

	if posSlot < 4 {
		return posSlot, nil
	}

	numDirectBits := (posSlot >> 1) - 1
	dist := (2 | (posSlot & 1)) << numDirectBits

	var bits uint32

	if posSlot < kEndPosModelIndex {
		bits, err = bitTreeReverseDecode(s.posDecoders[dist-posSlot:], int(numDirectBits), rc)
		if err != nil {
			return 0, err
		}

		dist += bits
	} else {
		bits, err = rc.DecodeDirectBits(int(numDirectBits - kNumAlignBits))
		if err != nil {
			return 0, err
		}

		dist += bits << kNumAlignBits

		bits, err = s.alignDecoder.ReverseDecode(rc)
		if err != nil {
			return 0, err
		}

		dist += bits
	}

	return dist, nil
}
