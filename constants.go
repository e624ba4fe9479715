package lzma2

type prob = uint16

const (
	kNumBitModelTotalBits = 11
	kNumMoveBits          = 5
	probInitVal           = (1 << kNumBitModelTotalBits) / 2

	kTopValue = uint32(1) << 24

	kNumStates     = 12
	kNumPosBitsMax = 4

	kNumLenToPosStates = 4
	kNumAlignBits      = 4
	kEndPosModelIndex  = 14
	kNumFullDistances  = 1 << (kEndPosModelIndex >> 1)

	kMatchMinLen = 2

	lzmaDicMin = 1 << 12
	lzmaDicMax = 1<<32 - 1

	defaultDictSize = 8 * 1024 * 1024
)

func initProbs(probs []prob) {
	for i := range probs {
		probs[i] = probInitVal
	}
}
