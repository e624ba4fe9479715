package lzma2

import "errors"

var (
	ErrCorrupted           = errors.New("lzma2: data is corrupted")
	ErrInvalidStatus       = errors.New("lzma2: invalid status: must be 0, 1, 2 or >= 128")
	ErrIncorrectProperties = errors.New("lzma2: incorrect properties")
	ErrDictOutOfRange      = errors.New("lzma2: dictionary size out of range")
	ErrDistanceOutOfRange  = errors.New("lzma2: match distance exceeds dictionary history")
	ErrStreamTooShort      = errors.New("lzma2: stream too short")
)
