package codecs

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/recocache"
)

// Msgpack serializes records using vmihailenco/msgpack/v5.
// The zero value is ready to use.
type Msgpack struct{}

var _ recocache.Codec = Msgpack{}

func (Msgpack) Encode(rec *recocache.RecommendedDialogs) ([]byte, error) {
	return msgpack.Marshal(toRecord(rec, time.Now()))
}

func (Msgpack) Decode(b []byte) (*recocache.RecommendedDialogs, error) {
	var r record
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return fromRecord(r, time.Now())
}
