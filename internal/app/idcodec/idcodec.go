// Package idcodec obfuscates internal numeric ids into short opaque tokens
// for the API boundary. Encoding is a stable, reversible bijection (hashids
// with a fixed salt), not a cryptographic scheme: its job is to keep raw
// sequence values out of responses, not to be unguessable.
package idcodec

import (
	"fmt"

	hashids "github.com/speps/go-hashids/v2"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
)

// Tokens look like "4ZM80EZ0": uppercase alphanumeric, at least 8 chars.
const (
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	minLength = 8
)

// Codec encodes and decodes entity ids. It is stateless and safe for
// concurrent use; construct once and inject into every component that
// touches external ids.
type Codec struct {
	h *hashids.HashID
}

// New builds a Codec from the configured salt. The salt must be identical
// across every process that exchanges tokens.
func New(salt string) (*Codec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.Alphabet = alphabet
	hd.MinLength = minLength
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("init id codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode turns an internal id into its external token.
func (c *Codec) Encode(id int64) string {
	// EncodeInt64 only fails on negative input, which is outside the id
	// domain; fall back to an empty token rather than panicking.
	token, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return ""
	}
	return token
}

// Decode turns an external token back into the internal id. Malformed or
// foreign tokens yield apperr.ErrInvalidToken.
func (c *Codec) Decode(token string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(token)
	if err != nil || len(ids) != 1 || ids[0] < 0 {
		return 0, fmt.Errorf("%w: %q", apperr.ErrInvalidToken, token)
	}
	return ids[0], nil
}
