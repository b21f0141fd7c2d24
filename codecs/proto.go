package codecs

import (
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/unkn0wn-root/recocache"
	"github.com/unkn0wn-root/recocache/internal/timeenc"
)

// Proto serializes records on the protobuf wire format, built directly with
// protowire so no generated code is needed. The zero value is ready to use.
//
// Schema equivalent:
//
//	message Record {
//	  repeated Dialog dialogs = 1;
//	  sint64 reload_rel_nanos = 2;
//	  sint64 saved_at_unix    = 3;
//	  uint32 total            = 4; // present only when != len(dialogs)
//	}
//	message Dialog {
//	  uint32 kind = 1;
//	  sint64 id   = 2;
//	}
//
// Unknown fields are skipped, per protobuf convention.
type Proto struct{}

var _ recocache.Codec = Proto{}

const (
	fieldDialogs = 1
	fieldRel     = 2
	fieldAt      = 3
	fieldTotal   = 4

	dialogFieldKind = 1
	dialogFieldID   = 2
)

func (Proto) Encode(rec *recocache.RecommendedDialogs) ([]byte, error) {
	rel, at := timeenc.Encode(rec.NextReload, time.Now())

	var b []byte
	for _, d := range rec.Dialogs {
		var sub []byte
		sub = protowire.AppendTag(sub, dialogFieldKind, protowire.VarintType)
		sub = protowire.AppendVarint(sub, uint64(d.Kind))
		sub = protowire.AppendTag(sub, dialogFieldID, protowire.VarintType)
		sub = protowire.AppendVarint(sub, protowire.EncodeZigZag(d.ID))
		b = protowire.AppendTag(b, fieldDialogs, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	b = protowire.AppendTag(b, fieldRel, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(rel)))
	b = protowire.AppendTag(b, fieldAt, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(at))
	if rec.TotalCount != int32(len(rec.Dialogs)) {
		b = protowire.AppendTag(b, fieldTotal, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(uint32(rec.TotalCount)))
	}
	return b, nil
}

func (Proto) Decode(b []byte) (*recocache.RecommendedDialogs, error) {
	var (
		dialogs   []recocache.DialogID
		rel, at   int64
		total     int32
		haveRel   bool
		haveAt    bool
		haveTotal bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, recocache.ErrCorrupt
		}
		b = b[n:]

		switch {
		case num == fieldDialogs && typ == protowire.BytesType:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, recocache.ErrCorrupt
			}
			b = b[n:]
			d, err := decodeDialog(sub)
			if err != nil {
				return nil, err
			}
			dialogs = append(dialogs, d)
		case num == fieldRel && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, recocache.ErrCorrupt
			}
			b = b[n:]
			rel = protowire.DecodeZigZag(v)
			haveRel = true
		case num == fieldAt && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, recocache.ErrCorrupt
			}
			b = b[n:]
			at = protowire.DecodeZigZag(v)
			haveAt = true
		case num == fieldTotal && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, recocache.ErrCorrupt
			}
			b = b[n:]
			if v > math.MaxInt32 {
				return nil, recocache.ErrCorrupt
			}
			total = int32(v)
			haveTotal = true
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, recocache.ErrCorrupt
			}
			b = b[n:]
		}
	}

	if !haveRel || !haveAt {
		return nil, recocache.ErrCorrupt
	}
	if !haveTotal {
		total = int32(len(dialogs))
	}
	if total < int32(len(dialogs)) {
		return nil, recocache.ErrCorrupt
	}

	return &recocache.RecommendedDialogs{
		Dialogs:    dialogs,
		TotalCount: total,
		NextReload: timeenc.Decode(time.Duration(rel), at, time.Now()),
	}, nil
}

func decodeDialog(b []byte) (recocache.DialogID, error) {
	var d recocache.DialogID
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, recocache.ErrCorrupt
		}
		b = b[n:]

		switch {
		case num == dialogFieldKind && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, recocache.ErrCorrupt
			}
			b = b[n:]
			kind := recocache.DialogKind(v)
			if uint64(uint8(v)) != v || !kind.Valid() {
				return d, recocache.ErrCorrupt
			}
			d.Kind = kind
		case num == dialogFieldID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, recocache.ErrCorrupt
			}
			b = b[n:]
			d.ID = protowire.DecodeZigZag(v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, recocache.ErrCorrupt
			}
			b = b[n:]
		}
	}
	if !d.Kind.Valid() {
		return d, recocache.ErrCorrupt
	}
	return d, nil
}
