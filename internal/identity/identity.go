package identity

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxIDLength bounds caller-supplied participant ids.
const MaxIDLength = 128

// Issuer is the seam where real authentication would plug in. The session
// core never interprets participant ids beyond using them as opaque map
// keys, so the default implementation only issues fresh ids and screens
// out garbage.
type Issuer interface {
	Issue() string
	Validate(id string) bool
}

// UUIDIssuer hands out random uuids and accepts any well-formed opaque id.
type UUIDIssuer struct{}

func (UUIDIssuer) Issue() string { return uuid.NewString() }

func (UUIDIssuer) Validate(id string) bool {
	return id != "" && len(id) <= MaxIDLength && utf8.ValidString(id)
}
