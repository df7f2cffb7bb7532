package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticTokenSource("").Token(context.Background())
	assert.Error(t, err)
}

func TestCachingTokenSource(t *testing.T) {
	base := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	now := base
	mints := 0

	src := NewCachingTokenSource(func(context.Context) (string, time.Time, error) {
		mints++
		return "tok", now.Add(time.Hour), nil
	}).WithNow(func() time.Time { return now })

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, 1, mints)

	// Well within expiry: cached.
	now = base.Add(30 * time.Minute)
	_, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mints)

	// Inside the slack window before expiry: re-minted.
	now = base.Add(time.Hour - 10*time.Second)
	_, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, mints)
}

func TestCachingTokenSource_MintError(t *testing.T) {
	src := NewCachingTokenSource(func(context.Context) (string, time.Time, error) {
		return "", time.Time{}, eris.New("oauth exchange failed")
	})

	_, err := src.Token(context.Background())
	assert.Error(t, err)
}
