package codecs

import (
	"fmt"

	"github.com/unkn0wn-root/recocache"
)

// Limit wraps another codec to enforce a maximum allowed payload size at
// Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
/// Typical use: protect against oversized inputs coming from a shared store.
type Limit struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner recocache.Codec
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Decode. Longer payloads fail without invoking Inner.
	MaxDecode int
}

var _ recocache.Codec = Limit{}

func (c Limit) Encode(rec *recocache.RecommendedDialogs) ([]byte, error) {
	return c.Inner.Encode(rec)
}

func (c Limit) Decode(b []byte) (*recocache.RecommendedDialogs, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		return nil, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
