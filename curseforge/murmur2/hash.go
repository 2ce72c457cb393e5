// Package murmur2 implements the CurseForge file fingerprint: MurmurHash2 with seed 1 over the file with whitespace bytes removed
package murmur2

import (
	"encoding/binary"
	"hash"

	"github.com/aviddiviner/go-murmur"
)

// New returns a hash.Hash32 computing the CurseForge fingerprint
func New() hash.Hash32 {
	return &fingerprint{}
}

type fingerprint struct {
	// MurmurHash2 is seeded with the input length, so the whole input is buffered
	buf []byte
}

func (f *fingerprint) Write(p []byte) (int, error) {
	for _, b := range p {
		if !isWhitespace(b) {
			f.buf = append(f.buf, b)
		}
	}
	return len(p), nil
}

func isWhitespace(b byte) bool {
	return b == '\t' || b == '\n' || b == '\r' || b == ' '
}

func (f *fingerprint) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, f.Sum32())
}

func (f *fingerprint) Sum32() uint32 {
	return murmur.MurmurHash2(f.buf, 1)
}

func (f *fingerprint) Reset() {
	f.buf = f.buf[:0]
}

func (f *fingerprint) Size() int {
	return 4
}

func (f *fingerprint) BlockSize() int {
	return 1
}
