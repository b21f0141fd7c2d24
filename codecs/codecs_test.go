package codecs

import (
	"testing"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/unkn0wn-root/recocache"
)

func allCodecs(t *testing.T) map[string]recocache.Codec {
	t.Helper()
	return map[string]recocache.Codec{
		"cbor":     MustCBOR(false),
		"cbor_det": MustCBOR(true),
		"msgpack":  Msgpack{},
		"proto":    Proto{},
		"json":     JSON{},
	}
}

func sampleComplete() *recocache.RecommendedDialogs {
	return &recocache.RecommendedDialogs{
		Dialogs: []recocache.DialogID{
			recocache.ChannelDialogID(101),
			recocache.ChannelDialogID(102),
			recocache.ChannelDialogID(103),
		},
		TotalCount: 3,
		NextReload: time.Now().Add(6 * time.Hour),
	}
}

func sampleIncomplete() *recocache.RecommendedDialogs {
	return &recocache.RecommendedDialogs{
		Dialogs: []recocache.DialogID{
			recocache.ChannelDialogID(7),
			recocache.ChannelDialogID(8),
		},
		TotalCount: 100,
		NextReload: time.Now().Add(time.Hour),
	}
}

func assertRoundTrip(t *testing.T, c recocache.Codec, in *recocache.RecommendedDialogs) {
	t.Helper()
	raw, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.TotalCount != in.TotalCount {
		t.Fatalf("TotalCount = %d, want %d", out.TotalCount, in.TotalCount)
	}
	if len(out.Dialogs) != len(in.Dialogs) {
		t.Fatalf("len(Dialogs) = %d, want %d", len(out.Dialogs), len(in.Dialogs))
	}
	for i := range in.Dialogs {
		if out.Dialogs[i] != in.Dialogs[i] {
			t.Fatalf("Dialogs[%d] = %v, want %v", i, out.Dialogs[i], in.Dialogs[i])
		}
	}
	// the reload deadline survives within unix-second anchor granularity
	if d := out.NextReload.Sub(in.NextReload); d < -2*time.Second || d > 2*time.Second {
		t.Fatalf("NextReload drifted by %v", d)
	}
}

func TestRoundTrip(t *testing.T) {
	for name, c := range allCodecs(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("complete", func(t *testing.T) { assertRoundTrip(t, c, sampleComplete()) })
			t.Run("incomplete", func(t *testing.T) { assertRoundTrip(t, c, sampleIncomplete()) })
			t.Run("empty", func(t *testing.T) {
				assertRoundTrip(t, c, &recocache.RecommendedDialogs{
					TotalCount: 0,
					NextReload: time.Now().Add(time.Hour),
				})
			})
		})
	}
}

func TestGarbageRejected(t *testing.T) {
	for name, c := range allCodecs(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Decode([]byte("\xde\xad\xbe\xef not a record")); err == nil {
				t.Fatalf("Decode should reject garbage")
			}
		})
	}
}

func TestTotalBelowListRejected(t *testing.T) {
	bad := record{
		Dialogs: []dialog{
			{Kind: uint8(recocache.DialogChannel), ID: 1},
			{Kind: uint8(recocache.DialogChannel), ID: 2},
		},
		Rel:   int64(time.Hour),
		At:    time.Now().Unix(),
		Total: 1,
	}
	if _, err := fromRecord(bad, time.Now()); err != recocache.ErrCorrupt {
		t.Fatalf("fromRecord = %v, want ErrCorrupt", err)
	}
}

func TestBadKindRejected(t *testing.T) {
	bad := record{
		Dialogs: []dialog{{Kind: 200, ID: 1}},
		Rel:     int64(time.Hour),
		At:      time.Now().Unix(),
	}
	if _, err := fromRecord(bad, time.Now()); err != recocache.ErrCorrupt {
		t.Fatalf("fromRecord = %v, want ErrCorrupt", err)
	}
}

// Absent total must reconstruct as the list length.
func TestAbsentTotalMeansComplete(t *testing.T) {
	r := toRecord(sampleComplete(), time.Now())
	if r.Total != 0 {
		t.Fatalf("complete record should omit total, got %d", r.Total)
	}
	out, err := fromRecord(r, time.Now())
	if err != nil {
		t.Fatalf("fromRecord: %v", err)
	}
	if out.TotalCount != 3 {
		t.Fatalf("TotalCount = %d, want 3", out.TotalCount)
	}
}

// The proto wiring must not emit field 4 for a complete list.
func TestProtoOmitsTotalWhenComplete(t *testing.T) {
	raw, err := Proto{}.Encode(sampleComplete())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			t.Fatalf("ConsumeTag: %v", protowire.ParseError(n))
		}
		raw = raw[n:]
		if num == fieldTotal {
			t.Fatalf("complete list encoded an explicit total")
		}
		skip := protowire.ConsumeFieldValue(num, typ, raw)
		if skip < 0 {
			t.Fatalf("ConsumeFieldValue: %v", protowire.ParseError(skip))
		}
		raw = raw[skip:]
	}
}

// Fields from a newer writer are skipped, not fatal.
func TestProtoSkipsUnknownFields(t *testing.T) {
	raw, err := Proto{}.Encode(sampleIncomplete())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw = protowire.AppendTag(raw, 9, protowire.VarintType)
	raw = protowire.AppendVarint(raw, 42)

	out, err := Proto{}.Decode(raw)
	if err != nil {
		t.Fatalf("Decode with unknown field: %v", err)
	}
	if out.TotalCount != 100 || len(out.Dialogs) != 2 {
		t.Fatalf("unexpected record after unknown-field skip: %+v", out)
	}
}

func TestProtoMissingDeadlineRejected(t *testing.T) {
	var raw []byte
	raw = protowire.AppendTag(raw, fieldRel, protowire.VarintType)
	raw = protowire.AppendVarint(raw, protowire.EncodeZigZag(int64(time.Hour)))
	// no saved_at field
	if _, err := Proto{}.Decode(raw); err != recocache.ErrCorrupt {
		t.Fatalf("Decode = %v, want ErrCorrupt", err)
	}
}

func TestLimitCodec(t *testing.T) {
	c := Limit{Inner: Msgpack{}, MaxDecode: 8}
	raw, err := c.Encode(sampleComplete())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(raw) <= 8 {
		t.Fatalf("sample should exceed the limit, got %d bytes", len(raw))
	}
	if _, err := c.Decode(raw); err == nil {
		t.Fatalf("Decode should fail above MaxDecode")
	}
	unlimited := Limit{Inner: Msgpack{}}
	if _, err := unlimited.Decode(raw); err != nil {
		t.Fatalf("Decode without limit: %v", err)
	}
}
