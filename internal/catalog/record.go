package catalog

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ZaninAndrea/huffpack/internal/archive"
	"github.com/ZaninAndrea/huffpack/pkg/compression"
)

const recordVersion = 1

var ErrCorruptRecord = fmt.Errorf("corrupt catalog record")

func marshalRecord(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	w := archive.NewStructuredWriter(&buf)

	uvarints := []uint64{
		rec.Seq,
		rec.Digest,
		uint64(rec.Degree),
		uint64(rec.Symbols),
		uint64(rec.Distinct),
		uint64(rec.Skipped),
		uint64(rec.Bits),
		uint64(rec.Bytes),
	}

	if err := w.WriteUint8(recordVersion); err != nil {
		return nil, err
	}
	for _, v := range uvarints {
		if err := w.WriteUvarint(v); err != nil {
			return nil, err
		}
	}
	if err := w.WriteString(rec.Mode); err != nil {
		return nil, err
	}
	if err := w.WriteString(rec.Layout); err != nil {
		return nil, err
	}
	if err := w.WriteVarint(rec.CreatedAt.UnixNano()); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(compression.AppendDeltaOfDelta(nil, rec.PartitionOffsets)); err != nil {
		return nil, err
	}
	if err := w.WriteLZ4(rec.CodeTable); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func unmarshalRecord(data []byte) (Record, error) {
	r := archive.NewStructuredReader(bytes.NewReader(data))

	version, err := r.ReadUint8()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if version != recordVersion {
		return Record{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptRecord, version)
	}

	var rec Record
	var degree, symbols, distinct, skipped, bits, size uint64
	for _, dst := range []*uint64{&rec.Seq, &rec.Digest, &degree, &symbols, &distinct, &skipped, &bits, &size} {
		if *dst, err = r.ReadUvarint(); err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
	}
	rec.Degree = int(degree)
	rec.Symbols = int(symbols)
	rec.Distinct = int(distinct)
	rec.Skipped = int(skipped)
	rec.Bits = int(bits)
	rec.Bytes = int(size)

	if rec.Mode, err = r.ReadString(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if rec.Layout, err = r.ReadString(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	createdAt, err := r.ReadVarint()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	rec.CreatedAt = time.Unix(0, createdAt)

	offsets, err := r.ReadBytes()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if rec.PartitionOffsets, err = compression.DecodeDeltaOfDelta(offsets); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	if rec.CodeTable, err = r.ReadLZ4(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	return rec, nil
}
