package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchResult(t *testing.T) {
	boom := errors.New("boom")
	b := BatchResult{Items: []ItemResult{
		{Name: "a.jpg", URL: "u-a"},
		{Name: "b.jpg", Err: boom},
		{Name: "c.jpg", URL: "u-c"},
	}}

	assert.Equal(t, []string{"u-a", "u-c"}, b.URLs())
	assert.True(t, b.HasFailures())
	assert.Len(t, b.Failed(), 1)
	assert.ErrorIs(t, b.Err(), boom)
}

func TestBatchResult_Empty(t *testing.T) {
	var b BatchResult
	assert.NotNil(t, b.URLs())
	assert.Empty(t, b.URLs())
	assert.False(t, b.HasFailures())
	assert.NoError(t, b.Err())
}

func TestListing_IsOwnedBy(t *testing.T) {
	l := &Listing{Creator: "a@example.com"}
	assert.True(t, l.IsOwnedBy("a@example.com"))
	assert.False(t, l.IsOwnedBy("b@example.com"))
	assert.False(t, (&Listing{}).IsOwnedBy(""))
}
