package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Cursor marks the last catalog entry returned by a listing page. Listings
// group by (document name, owner), so the owner is part of the resume
// point; a name alone would skip a same-named document from another owner
// when a page boundary falls between them.
type Cursor struct {
	LastName  string
	LastOwner string
}

var (
	ErrInvalidCursor = errors.New("invalid cursor format")
)

const cursorSep = "\x00"

// EncodeCursor creates a base64-encoded cursor from the last entry's name
// and owner.
func EncodeCursor(lastName, lastOwner string) string {
	if lastName == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(lastName + cursorSep + lastOwner))
}

// DecodeCursor decodes a base64-encoded cursor. An empty cursor decodes to
// nil, meaning "start from the beginning".
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	name, owner, ok := strings.Cut(string(decoded), cursorSep)
	if !ok || name == "" {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastName: name, LastOwner: owner}, nil
}
