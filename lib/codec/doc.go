// Package codec provides the on-disk encodings of a techlog record sequence.
// It defines a common interface and several implementations that all write the
// same logical, self-describing document:
//
//	format:   "techlog"
//	version:  1
//	saved_at: time of the save
//	records:  ordered list of {kind: HW|SW, id, client, date, description,
//	          replacement_part | operating_system}
//
// Key Components:
//
//   - ICodec: interface implemented by every encoding.
//
//   - jsonCodecImpl: indented json, the default. Decoding is strict: unknown
//     fields and trailing content are rejected.
//
//   - yamlCodecImpl: yaml via gopkg.in/yaml.v3, convenient for manual
//     inspection and repair of a data file.
//
//   - binaryCodecImpl: compact length-prefixed format with a magic number and
//     a version byte. Truncated or oversized data is detected.
//
//   - msgpackCodecImpl: MessagePack via github.com/ugorji/go/codec, the same
//     document as the text encodings in a compact form.
//
//   - Detect / DecodeAny: pick the decoder from the content, so a file written
//     with one codec stays readable after the configured codec changes.
//
// Decoding never trusts the file: every entry is rebuilt through
// record.NewHardware / record.NewSoftware, and duplicate ids are rejected.
// All decoding errors wrap ErrInvalidDocument.
//
// Thread Safety:
//
//	All codecs are stateless and safe for concurrent use.
package codec
