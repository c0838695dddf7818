package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURLRoundTrip(t *testing.T) {
	base := "http://localhost:9000/listings-images"
	key := "listings/abc/1714550400000-mặt tiền.jpg"

	u := PublicURL(base+"/", key)
	assert.Equal(t, "http://localhost:9000/listings-images/listings/abc/1714550400000-m%E1%BA%B7t%20ti%E1%BB%81n.jpg", u)

	got, ok := KeyFromURL(base, u)
	assert.True(t, ok)
	assert.Equal(t, key, got)
}

func TestKeyFromURL_Rejects(t *testing.T) {
	base := "https://storage.googleapis.com/bucket"
	_, ok := KeyFromURL(base, "https://storage.googleapis.com/other/listings/a/1-x.jpg")
	assert.False(t, ok)
	_, ok = KeyFromURL(base, base+"/")
	assert.False(t, ok)

	key, ok := KeyFromURL(base, base+"/listings/a/1-x.jpg?token=abc")
	assert.True(t, ok)
	assert.Equal(t, "listings/a/1-x.jpg", key)
}
