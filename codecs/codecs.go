// Package codecs provides alternative persistence codecs for recommendation
// records. The default Binary codec lives in the root package; the variants
// here exist for deployments that standardize on one serialization format
// across their stores.
//
// All variants keep the absence economy of the binary envelope: the total
// is written only when it differs from the list length, and the reload
// deadline travels as an offset from the save instant plus that instant's
// unix second.
package codecs

import (
	"time"

	"github.com/unkn0wn-root/recocache"
	"github.com/unkn0wn-root/recocache/internal/timeenc"
)

// record is the stored shape shared by the tag-driven codecs. Total is
// omitted when it equals the list length; an explicit total is never zero
// because an empty complete list omits the field too.
type record struct {
	Dialogs []dialog `json:"d,omitempty" cbor:"d,omitempty" msgpack:"d,omitempty"`
	Rel     int64    `json:"r" cbor:"r" msgpack:"r"`
	At      int64    `json:"a" cbor:"a" msgpack:"a"`
	Total   int32    `json:"t,omitempty" cbor:"t,omitempty" msgpack:"t,omitempty"`
}

type dialog struct {
	Kind uint8 `json:"k" cbor:"k" msgpack:"k"`
	ID   int64 `json:"i" cbor:"i" msgpack:"i"`
}

func toRecord(rec *recocache.RecommendedDialogs, now time.Time) record {
	var r record
	if n := len(rec.Dialogs); n > 0 {
		r.Dialogs = make([]dialog, n)
		for i, d := range rec.Dialogs {
			r.Dialogs[i] = dialog{Kind: uint8(d.Kind), ID: d.ID}
		}
	}
	rel, at := timeenc.Encode(rec.NextReload, now)
	r.Rel = int64(rel)
	r.At = at
	if rec.TotalCount != int32(len(rec.Dialogs)) {
		r.Total = rec.TotalCount
	}
	return r
}

func fromRecord(r record, now time.Time) (*recocache.RecommendedDialogs, error) {
	var dialogs []recocache.DialogID
	if len(r.Dialogs) > 0 {
		dialogs = make([]recocache.DialogID, 0, len(r.Dialogs))
		for _, d := range r.Dialogs {
			kind := recocache.DialogKind(d.Kind)
			if !kind.Valid() {
				return nil, recocache.ErrCorrupt
			}
			dialogs = append(dialogs, recocache.DialogID{Kind: kind, ID: d.ID})
		}
	}
	total := r.Total
	if total == 0 {
		total = int32(len(dialogs))
	}
	if total < int32(len(dialogs)) {
		return nil, recocache.ErrCorrupt
	}
	return &recocache.RecommendedDialogs{
		Dialogs:    dialogs,
		TotalCount: total,
		NextReload: timeenc.Decode(time.Duration(r.Rel), r.At, now),
	}, nil
}
