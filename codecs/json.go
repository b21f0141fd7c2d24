package codecs

import (
	"encoding/json"
	"time"

	"github.com/unkn0wn-root/recocache"
)

// JSON serializes records as JSON. Larger than the other variants; useful
// when stored values must stay human-inspectable.
type JSON struct{}

var _ recocache.Codec = JSON{}

func (JSON) Encode(rec *recocache.RecommendedDialogs) ([]byte, error) {
	return json.Marshal(toRecord(rec, time.Now()))
}

func (JSON) Decode(b []byte) (*recocache.RecommendedDialogs, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return fromRecord(r, time.Now())
}
