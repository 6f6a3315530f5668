package compression

import "io"

// BitWriter packs bits LSB-first: the first bit written lands in bit 0 of the
// first byte, the ninth in bit 0 of the second byte. Unused bits of the last
// byte are always zero.
type BitWriter struct {
	buf   []byte
	nbits int
}

func (w *BitWriter) WriteBit(bit bool) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[w.nbits/8] |= 1 << (w.nbits % 8)
	}
	w.nbits++
}

// WriteBits writes a string of '0' and '1' characters in order. Any character
// other than '1' is written as a zero bit.
func (w *BitWriter) WriteBits(bits string) {
	for i := 0; i < len(bits); i++ {
		w.WriteBit(bits[i] == '1')
	}
}

// Append writes the first nbits bits of src, which must itself be packed
// LSB-first. Whole bytes are copied when the writer is byte aligned, otherwise
// every byte is split across two output bytes.
func (w *BitWriter) Append(src []byte, nbits int) {
	if nbits <= 0 {
		return
	}
	src = src[:(nbits+7)/8]

	shift := w.nbits % 8
	if shift == 0 {
		w.buf = append(w.buf, src...)
	} else {
		last := len(w.buf) - 1
		for _, b := range src {
			w.buf[last] |= b << shift
			w.buf = append(w.buf, b>>(8-shift))
			last++
		}
	}

	w.nbits += nbits
	w.buf = w.buf[:(w.nbits+7)/8]
	if rem := w.nbits % 8; rem != 0 {
		w.buf[len(w.buf)-1] &= byte(1<<rem) - 1
	}
}

// Len returns the number of bits written so far.
func (w *BitWriter) Len() int {
	return w.nbits
}

// Bytes returns the packed bits. The final byte is zero-padded.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

func (w *BitWriter) Reset() {
	w.buf = w.buf[:0]
	w.nbits = 0
}

// BitReader reads back bits written by a BitWriter.
type BitReader struct {
	data  []byte
	nbits int
	pos   int
}

// NewBitReader reads the first nbits bits of data. nbits is capped at the
// number of bits data holds.
func NewBitReader(data []byte, nbits int) *BitReader {
	return &BitReader{data: data, nbits: min(nbits, 8*len(data))}
}

// ReadBit returns the next bit, or io.EOF once nbits bits have been read.
func (r *BitReader) ReadBit() (bool, error) {
	if r.pos >= r.nbits {
		return false, io.EOF
	}
	bit := r.data[r.pos/8]&(1<<(r.pos%8)) != 0
	r.pos++
	return bit, nil
}

// Skip advances the reader by n bits without returning them.
func (r *BitReader) Skip(n int) {
	r.pos = min(r.pos+n, r.nbits)
}

// Remaining returns the number of bits left to read.
func (r *BitReader) Remaining() int {
	return r.nbits - r.pos
}
