package lzma2

// decoderState owns the adaptive probability model, the 12-state
// automaton and the rep-distance history. It lives for the whole stream;
// chunks reset parts of it in place through ResetState.
type decoderState struct {
	outWindow *lzWindow

	lc, lp, pb uint8

	unpackedSize uint32

	state                  uint32
	rep0, rep1, rep2, rep3 uint32

	litProbs       []prob
	posSlotDecoder []*bitTreeDecoder
	alignDecoder   *bitTreeDecoder
	posDecoders    []prob

	isMatch    []prob
	isRep      []prob
	isRepG0    []prob
	isRepG1    []prob
	isRepG2    []prob
	isRep0Long []prob

	lenDecoder    *lenDecoder
	repLenDecoder *lenDecoder
}

func newDecoderState(outWindow *lzWindow, lc, lp, pb uint8) *decoderState {
	s := &decoderState{
		outWindow: outWindow,

		posSlotDecoder: make([]*bitTreeDecoder, kNumLenToPosStates),
		alignDecoder:   newBitTreeDecoder(kNumAlignBits),
		posDecoders:    make([]prob, 1+kNumFullDistances-kEndPosModelIndex),

		isMatch:    make([]prob, kNumStates<<kNumPosBitsMax),
		isRep:      make([]prob, kNumStates),
		isRepG0:    make([]prob, kNumStates),
		isRepG1:    make([]prob, kNumStates),
		isRepG2:    make([]prob, kNumStates),
		isRep0Long: make([]prob, kNumStates<<kNumPosBitsMax),

		lenDecoder:    newLenDecoder(),
		repLenDecoder: newLenDecoder(),
	}

	for i := 0; i < kNumLenToPosStates; i++ {
		s.posSlotDecoder[i] = newBitTreeDecoder(6)
	}

	s.ResetState(lc, lp, pb)

	return s
}

// ResetState reinitializes every probability table to the neutral value,
// puts the automaton back into state 0 and clears the rep distances.
// The properties take effect for all following chunks until the next
// reset.
func (s *decoderState) ResetState(lc, lp, pb uint8) {
	s.lc, s.lp, s.pb = lc, lp, pb

	need := uint32(0x300) << (lc + lp)
	if uint32(len(s.litProbs)) != need {
		s.litProbs = make([]prob, need)
	}
	initProbs(s.litProbs)

	for i := 0; i < kNumLenToPosStates; i++ {
		s.posSlotDecoder[i].Reset()
	}

	s.alignDecoder.Reset()
	initProbs(s.posDecoders)

	initProbs(s.isMatch)
	initProbs(s.isRep)
	initProbs(s.isRepG0)
	initProbs(s.isRepG1)
	initProbs(s.isRepG2)
	initProbs(s.isRep0Long)

	s.lenDecoder.Reset()
	s.repLenDecoder.Reset()

	s.rep0, s.rep1, s.rep2, s.rep3 = 0, 0, 0, 0
	s.state = 0
}

// SetUnpackedSize declares how many bytes the next process call must
// produce.
func (s *decoderState) SetUnpackedSize(n uint32) {
	s.unpackedSize = n
}
