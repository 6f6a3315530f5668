// Package archive reads and writes the artifacts produced next to an encoded
// file: the code table and the binary records stored in the run catalog.
package archive

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

var ErrCorruptBlock = fmt.Errorf("corrupt lz4 block")

// StructuredWriter writes length-prefixed and varint encoded values.
type StructuredWriter struct {
	w      io.Writer
	offset uint64
}

func NewStructuredWriter(w io.Writer) *StructuredWriter {
	return &StructuredWriter{w: w, offset: 0}
}

// Write writes data to the underlying writer with no special formatting.
func (sw *StructuredWriter) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	sw.offset += uint64(n)
	return n, err
}

// Offset returns the number of bytes written so far.
func (sw *StructuredWriter) Offset() uint64 {
	return sw.offset
}

func (sw *StructuredWriter) WriteVarint(value int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], value)
	_, err := sw.Write(buf[:n])
	return err
}

func (sw *StructuredWriter) WriteUvarint(value uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], value)
	_, err := sw.Write(buf[:n])
	return err
}

// WriteBytes writes a byte slice prefixed with its length as a uvarint.
func (sw *StructuredWriter) WriteBytes(data []byte) error {
	if err := sw.WriteUvarint(uint64(len(data))); err != nil {
		return err
	}
	_, err := sw.Write(data)
	return err
}

func (sw *StructuredWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

func (sw *StructuredWriter) WriteUint8(value uint8) error {
	_, err := sw.Write([]byte{value})
	return err
}

// WriteLZ4 writes p as a single LZ4 block: the raw length, then the block
// length and the block. A block length of zero means p is stored as is
// because it did not compress.
func (sw *StructuredWriter) WriteLZ4(p []byte) error {
	if err := sw.WriteUvarint(uint64(len(p))); err != nil {
		return err
	}

	block := make([]byte, lz4.CompressBlockBound(len(p)))
	var c lz4.Compressor
	n, err := c.CompressBlock(p, block)
	if err != nil {
		return err
	}
	if n == 0 || n >= len(p) {
		if err := sw.WriteUvarint(0); err != nil {
			return err
		}
		_, err := sw.Write(p)
		return err
	}

	return sw.WriteBytes(block[:n])
}

// StructuredReader reads values written by a StructuredWriter.
type StructuredReader struct {
	r io.Reader
}

func NewStructuredReader(r io.Reader) *StructuredReader {
	return &StructuredReader{r: r}
}

func (sr *StructuredReader) Read(p []byte) (n int, err error) {
	return sr.r.Read(p)
}

// ReadByte reads a single byte from the underlying reader.
// This is required for binary.ReadVarint.
func (sr *StructuredReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(sr.r, buf[:])
	return buf[0], err
}

func (sr *StructuredReader) ReadVarint() (int64, error) {
	return binary.ReadVarint(sr)
}

func (sr *StructuredReader) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(sr)
}

// ReadBytes reads a byte slice prefixed with its length as a uvarint.
func (sr *StructuredReader) ReadBytes() ([]byte, error) {
	length, err := sr.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return sr.readN(length)
}

func (sr *StructuredReader) ReadString() (string, error) {
	data, err := sr.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (sr *StructuredReader) ReadUint8() (uint8, error) {
	return sr.ReadByte()
}

// ReadLZ4 reads a block written by WriteLZ4 and decompresses it.
func (sr *StructuredReader) ReadLZ4() ([]byte, error) {
	rawLength, err := sr.ReadUvarint()
	if err != nil {
		return nil, err
	}
	blockLength, err := sr.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if blockLength == 0 {
		return sr.readN(rawLength)
	}

	block, err := sr.readN(blockLength)
	if err != nil {
		return nil, err
	}
	// A block expands at most 255 times.
	if rawLength > 255*blockLength+16 {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d", ErrCorruptBlock, blockLength, rawLength)
	}
	raw := make([]byte, rawLength)
	n, err := lz4.UncompressBlock(block, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
	}
	if uint64(n) != rawLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptBlock, rawLength, n)
	}
	return raw, nil
}

// readN reads exactly n bytes, allocating only as much as the reader yields.
func (sr *StructuredReader) readN(n uint64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(sr.r, int64(min(n, 1<<62))))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != n {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}
