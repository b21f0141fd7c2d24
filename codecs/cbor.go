package codecs

import (
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/recocache"
)

// CBOR serializes records using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs. Otherwise
// PreferredUnsortedEncOptions are used (smaller/faster defaults).
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ recocache.Codec = CBOR{}

// NewCBOR constructs a CBOR codec.
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables in tests/examples.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR) Encode(rec *recocache.RecommendedDialogs) ([]byte, error) {
	return c.enc.Marshal(toRecord(rec, time.Now()))
}

func (c CBOR) Decode(b []byte) (*recocache.RecommendedDialogs, error) {
	var r record
	if err := c.dec.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return fromRecord(r, time.Now())
}
