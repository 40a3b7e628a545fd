// Package seq encodes block numbers into sortable keys.
package seq

import (
	"strconv"
	"unsafe"
)

// EncodedLength defines the expected length of an encoded sequence.
const EncodedLength = 20

// Encode will encode a sequence zero padded to EncodedLength, which makes the
// byte order match the numeric order.
func Encode(s uint64) []byte {
	// prepare buffer
	buf := make([]byte, EncodedLength*2)

	// encode number
	res := strconv.AppendUint(buf[EncodedLength:EncodedLength], s, 10)

	// return directly if full
	if len(res) >= EncodedLength {
		return res
	}

	// determine start
	start := len(res)

	// writes zeroes
	for i := start; i < start+EncodedLength-len(res); i++ {
		buf[i] = '0'
	}

	// slice number
	res = buf[start : start+EncodedLength]

	return res
}

// Decode will decode a sequence.
func Decode(key []byte) (uint64, error) {
	return strconv.ParseUint(toString(key), 10, 64)
}

func toString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
