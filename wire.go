package recocache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/unkn0wn-root/recocache/internal/timeenc"
)

// Codec turns cached recommendation records into storable bytes and back.
// Decode must reject anything Encode could not have produced; the manager
// treats a decode failure as a miss and erases the stored copy.
type Codec interface {
	Encode(rec *RecommendedDialogs) ([]byte, error)
	Decode(b []byte) (*RecommendedDialogs, error)
}

// ErrCorrupt reports stored bytes no supported encoder produced.
var ErrCorrupt = errors.New("recocache: corrupt entry")

const (
	wireVersion byte = 1

	flagDialogs byte = 1 << 0 // list is non-empty
	flagTotal   byte = 1 << 1 // total differs from the list length
)

var magic4 = [...]byte{'R', 'E', 'C', 'O'}

const dialogLen = 1 + 8

// Binary is the default Codec: fixed-width big-endian fields behind a
// flags byte marking which optional fields follow.
//
//	magic(4) | ver(1) | flags(1) |
//	[flagDialogs] n(u32 be), n x (kind(1) | id(u64 be)) |
//	rel(i64 be) | at(i64 be) |
//	[flagTotal] total(u32 be)
//
// rel/at carry the reload deadline as an offset from the save instant plus
// that instant's unix second, so the deadline survives restarts. An absent
// total means "equal to the list length" and costs no bytes, which is the
// common case.
type Binary struct{}

var _ Codec = Binary{}

func (Binary) Encode(rec *RecommendedDialogs) ([]byte, error) {
	var flags byte
	if len(rec.Dialogs) > 0 {
		flags |= flagDialogs
	}
	if rec.TotalCount != int32(len(rec.Dialogs)) {
		flags |= flagTotal
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + dialogLen*len(rec.Dialogs) + 16 + 4)

	buf.Write(magic4[:])
	buf.WriteByte(wireVersion)
	buf.WriteByte(flags)

	var u8 [8]byte
	var u4 [4]byte

	if flags&flagDialogs != 0 {
		binary.BigEndian.PutUint32(u4[:], uint32(len(rec.Dialogs)))
		buf.Write(u4[:])
		for _, d := range rec.Dialogs {
			buf.WriteByte(byte(d.Kind))
			binary.BigEndian.PutUint64(u8[:], uint64(d.ID))
			buf.Write(u8[:])
		}
	}

	rel, at := timeenc.Encode(rec.NextReload, time.Now())
	binary.BigEndian.PutUint64(u8[:], uint64(rel))
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], uint64(at))
	buf.Write(u8[:])

	if flags&flagTotal != 0 {
		binary.BigEndian.PutUint32(u4[:], uint32(rec.TotalCount))
		buf.Write(u4[:])
	}

	return buf.Bytes(), nil
}

func (Binary) Decode(b []byte) (*RecommendedDialogs, error) {
	const hdr = 4 + 1 + 1
	if len(b) < hdr || !bytes.Equal(b[:4], magic4[:]) || b[4] != wireVersion {
		return nil, ErrCorrupt
	}
	flags := b[5]
	if flags&^(flagDialogs|flagTotal) != 0 {
		return nil, ErrCorrupt
	}
	off := hdr

	var dialogs []DialogID
	if flags&flagDialogs != 0 {
		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		n := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if n == 0 || n > (len(b)-off)/dialogLen { // overflow-safe bound check
			return nil, ErrCorrupt
		}
		dialogs = make([]DialogID, 0, n)
		for i := 0; i < n; i++ {
			kind := DialogKind(b[off])
			if !kind.Valid() {
				return nil, ErrCorrupt
			}
			id := int64(binary.BigEndian.Uint64(b[off+1 : off+dialogLen]))
			off += dialogLen
			dialogs = append(dialogs, DialogID{Kind: kind, ID: id})
		}
	}

	if off+16 > len(b) {
		return nil, ErrCorrupt
	}
	rel := time.Duration(binary.BigEndian.Uint64(b[off : off+8]))
	at := int64(binary.BigEndian.Uint64(b[off+8 : off+16]))
	off += 16

	total := int32(len(dialogs))
	if flags&flagTotal != 0 {
		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		u := binary.BigEndian.Uint32(b[off : off+4])
		off += 4
		if u > math.MaxInt32 {
			return nil, ErrCorrupt
		}
		total = int32(u)
	}

	// strict framing
	if off != len(b) {
		return nil, ErrCorrupt
	}
	if total < int32(len(dialogs)) {
		return nil, ErrCorrupt
	}

	return &RecommendedDialogs{
		Dialogs:    dialogs,
		TotalCount: total,
		NextReload: timeenc.Decode(rel, at, time.Now()),
	}, nil
}
