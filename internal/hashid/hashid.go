// Package hashid obfuscates internal numeric primary keys for external
// exposure. Businesses and reviews are addressed by hashids in the API;
// the database only ever sees the integer keys.
package hashid

import (
	"errors"

	hashids "github.com/speps/go-hashids/v2"
)

// ErrInvalid is returned when a value cannot be decoded back to an id.
var ErrInvalid = errors.New("hashid: invalid id")

// Codec encodes and decodes ids with a fixed salt and minimum length.
type Codec struct {
	h *hashids.HashID
}

// New builds a Codec. The salt must stay stable across deployments or
// previously issued ids stop resolving.
func New(salt string, minLength int) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

// Encode turns an internal id into its external form.
func (c *Codec) Encode(id uint64) string {
	// EncodeInt64 only fails on negative input; a uint64 row id cannot
	// trigger that within int64 range.
	s, err := c.h.EncodeInt64([]int64{int64(id)})
	if err != nil {
		return ""
	}
	return s
}

// Decode reverses Encode. Garbage input, including raw numeric ids, fails
// with ErrInvalid so callers can treat it as "not found".
func (c *Codec) Decode(s string) (uint64, error) {
	ids, err := c.h.DecodeInt64WithError(s)
	if err != nil || len(ids) != 1 || ids[0] < 0 {
		return 0, ErrInvalid
	}
	return uint64(ids[0]), nil
}
