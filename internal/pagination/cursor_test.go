package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor("policy.txt", "bob")
	require.NotEmpty(t, encoded)

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "policy.txt", cursor.LastName)
	assert.Equal(t, "bob", cursor.LastOwner)
}

func TestCursorDistinguishesOwners(t *testing.T) {
	// Same document name under two owners must produce two distinct
	// resume points.
	assert.NotEqual(t, EncodeCursor("notes.txt", "alice"), EncodeCursor("notes.txt", "bob"))
}

func TestEncodeCursorEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeCursor("", ""))
}

func TestDecodeCursorEmpty(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursorInvalid(t *testing.T) {
	_, err := DecodeCursor("not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestDecodeCursorMissingOwner(t *testing.T) {
	// Valid base64 without the separator is not a cursor we produced.
	_, err := DecodeCursor(base64.StdEncoding.EncodeToString([]byte("policy.txt")))
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
