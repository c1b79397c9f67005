package codec

import (
	"github.com/ValentinKolb/techlog/lib/record"
	ugorji "github.com/ugorji/go/codec"
)

// NewMsgpackCodec creates a new codec using MessagePack
func NewMsgpackCodec() ICodec {
	mh := &ugorji.MsgpackHandle{}
	mh.ErrorIfNoField = true
	mh.WriteExt = true
	return &msgpackCodecImpl{mh: mh}
}

// msgpackCodecImpl implements the ICodec interface using MessagePack.
// The document is written as a map, so the first byte is always a fixmap
// header (0x80-0x8f).
type msgpackCodecImpl struct {
	mh *ugorji.MsgpackHandle
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (m msgpackCodecImpl) Name() string {
	return "msgpack"
}

func (m msgpackCodecImpl) Encode(records []record.Record) ([]byte, error) {
	doc, err := newDocument(records)
	if err != nil {
		return nil, err
	}
	var out []byte
	if err := ugorji.NewEncoderBytes(&out, m.mh).Encode(doc); err != nil {
		return nil, err
	}
	return out, nil
}

func (m msgpackCodecImpl) Decode(b []byte) ([]record.Record, error) {
	if len(b) == 0 {
		return nil, invalid("msgpack: empty document")
	}
	dec := ugorji.NewDecoderBytes(b, m.mh)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid("msgpack: %v", err)
	}
	if n := dec.NumBytesRead(); n != len(b) {
		return nil, invalid("msgpack: %d bytes of trailing data", len(b)-n)
	}
	return doc.records()
}
