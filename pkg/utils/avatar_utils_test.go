package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAvatarUsesEmailSeed(t *testing.T) {
	url := DeriveAvatar("jane@example.com", "Jane Smith")

	assert.True(t, strings.HasPrefix(url, "https://api.dicebear.com/7.x/notionists/svg?seed=jane%40example.com&"))
	assert.Contains(t, url, "backgroundColor=b6e3f4,c0aede,d1d4f9,e0e7ff")
	assert.Equal(t, url, DeriveAvatar("jane@example.com", "someone else"))
	assert.NotEqual(t, url, DeriveAvatar("john@example.com", "Jane Smith"))
}

func TestDeriveAvatarFallsBackToName(t *testing.T) {
	url := DeriveAvatar("", "Bob Johnson")
	assert.Contains(t, url, "seed=Bob%20Johnson&")
}

func TestDeriveAvatarRandomSeed(t *testing.T) {
	first := DeriveAvatar("", "")
	second := DeriveAvatar("", "")

	require.Contains(t, first, "seed=")
	seed := strings.TrimPrefix(first, "https://api.dicebear.com/7.x/notionists/svg?seed=")
	seed = seed[:strings.IndexByte(seed, '&')]
	assert.Len(t, seed, 11)
	assert.NotEqual(t, first, second)
}

func TestEncodeSeedMatchesEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "o'neil!(x)*%20%2B%26%3D%2F", encodeSeed("o'neil!(x)* +&=/"))
	assert.Equal(t, "a-b_c.d~e", encodeSeed("a-b_c.d~e"))
}

func TestAvatarConfigURL(t *testing.T) {
	cfg := AvatarConfig{BaseURL: "http://avatars.local/", Style: "bottts"}
	assert.True(t, strings.HasPrefix(cfg.URL("a@b.co", ""), "http://avatars.local/bottts/svg?seed=a%40b.co&"))

	empty := AvatarConfig{}
	assert.Equal(t, DeriveAvatar("a@b.co", ""), empty.URL("a@b.co", ""))
}
