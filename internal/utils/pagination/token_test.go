package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	docDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 4, 1, 10, 30, 15, 123456789, time.UTC)

	token := EncodeToken(docDate, createdAt)
	gotDoc, gotCreated, err := DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, docDate.Equal(gotDoc))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = DecodeToken("") // decodes to empty string, fails the split
	assert.Error(t, err)
}

func TestDateBasedTokenRoundTrip(t *testing.T) {
	date := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)

	token := EncodeDateBasedToken(date)
	got, err := DecodeDateBasedToken(token)

	require.NoError(t, err)
	assert.True(t, date.Equal(got))
}
