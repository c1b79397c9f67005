package codec

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ValentinKolb/techlog/lib/record"
)

// NewBinaryCodec creates a new codec using a compact, versioned binary format
func NewBinaryCodec() ICodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements ICodec using a custom binary format.
//
// Layout (all integers big endian):
//
//	header:  magic "TLOG" | version uint8 | savedAt int64 (unix seconds) | count uint32
//	record:  kind uint8 | year uint16 | month uint8 | day uint8 |
//	         id | client | description | detail     (each: length uint32 + utf-8 bytes)
//
// detail is the replacement part for hardware and the operating system for software.
type binaryCodecImpl struct {
}

const (
	binaryMagic   = "TLOG"
	headerSize    = len(binaryMagic) + 1 + 8 + 4
	minRecordSize = 1 + 2 + 1 + 1 + 4*4
)

// Kind tags of the binary format
const (
	tagHardware byte = 1
	tagSoftware byte = 2
)

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b binaryCodecImpl) Name() string {
	return "binary"
}

func (b binaryCodecImpl) Encode(records []record.Record) ([]byte, error) {
	// Calculate total size needed
	totalSize := headerSize
	for _, r := range records {
		totalSize += b.sizeBytes(r)
	}
	result := make([]byte, totalSize)

	// Write header
	pos := copy(result, binaryMagic)
	result[pos] = FormatVersion
	pos += 1
	binary.BigEndian.PutUint64(result[pos:pos+8], uint64(time.Now().Unix()))
	pos += 8
	binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(records)))
	pos += 4

	// Write records
	for i, r := range records {
		var tag byte
		switch r.(type) {
		case *record.Hardware:
			tag = tagHardware
		case *record.Software:
			tag = tagSoftware
		default:
			return nil, fmt.Errorf("record %d: unsupported record type %T", i, r)
		}
		result[pos] = tag
		pos += 1

		// Write date
		y, m, d := r.Date().Date()
		binary.BigEndian.PutUint16(result[pos:pos+2], uint16(y))
		result[pos+2] = byte(m)
		result[pos+3] = byte(d)
		pos += 4

		// Write strings
		for _, s := range []string{r.ID(), r.Client(), r.Description(), r.Detail()} {
			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(s)))
			pos += 4
			pos += copy(result[pos:], s)
		}
	}

	return result, nil
}

func (b binaryCodecImpl) Decode(data []byte) ([]record.Record, error) {
	// Check minimum size
	if len(data) < headerSize {
		return nil, invalid("binary: data too short for header")
	}

	// Read and verify magic number
	if string(data[:len(binaryMagic)]) != binaryMagic {
		return nil, invalid("binary: magic number mismatch")
	}
	pos := len(binaryMagic)

	// Read and verify version
	if version := int(data[pos]); version != FormatVersion {
		return nil, invalid("binary: unsupported version: %d (expected %d)", version, FormatVersion)
	}
	pos += 1

	// savedAt is informational only
	pos += 8

	count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	// a count that cannot fit into the remaining data is a corrupt header
	if count > (len(data)-pos)/minRecordSize {
		return nil, invalid("binary: record count %d exceeds data size", count)
	}

	records := make([]record.Record, 0, count)
	for i := 0; i < count; i++ {
		r, next, err := b.readRecord(data, pos)
		if err != nil {
			return nil, fmt.Errorf("%w (record %d)", err, i)
		}
		records = append(records, r)
		pos = next
	}

	if pos != len(data) {
		return nil, invalid("binary: %d bytes of trailing data", len(data)-pos)
	}
	if err := checkUnique(records); err != nil {
		return nil, err
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the size of a single encoded record
func (b binaryCodecImpl) sizeBytes(r record.Record) int {
	// 1 byte for the kind + 4 bytes for the date
	size := 5
	for _, s := range []string{r.ID(), r.Client(), r.Description(), r.Detail()} {
		size += 4 + len(s) // 4 bytes for length + string
	}
	return size
}

// readRecord decodes the record starting at pos and returns the position after it
func (b binaryCodecImpl) readRecord(data []byte, pos int) (record.Record, int, error) {
	if pos+5 > len(data) {
		return nil, pos, invalid("binary: data too short for record header")
	}
	tag := data[pos]
	year := int(binary.BigEndian.Uint16(data[pos+1 : pos+3]))
	month := time.Month(data[pos+3])
	day := int(data[pos+4])
	pos += 5

	var fields [4]string
	for i := range fields {
		if pos+4 > len(data) {
			return nil, pos, invalid("binary: data too short for string length")
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if n > len(data)-pos {
			return nil, pos, invalid("binary: data too short for string data")
		}
		fields[i] = string(data[pos : pos+n])
		pos += n
	}

	date := record.Date(year, month, day)
	// time.Date normalizes out-of-range values, a round trip detects them
	if y, m, d := date.Date(); y != year || m != month || d != day {
		return nil, pos, invalid("binary: bad date %04d-%02d-%02d", year, month, day)
	}

	e := Entry{
		ID:          fields[0],
		Client:      fields[1],
		Date:        record.FormatDate(date),
		Description: fields[2],
	}
	switch tag {
	case tagHardware:
		e.Kind = record.KindHardware
		e.ReplacementPart = fields[3]
	case tagSoftware:
		e.Kind = record.KindSoftware
		e.OperatingSystem = fields[3]
	default:
		return nil, pos, invalid("binary: unknown record kind %d", tag)
	}

	r, err := fromEntry(e)
	if err != nil {
		return nil, pos, err
	}
	return r, pos, nil
}
