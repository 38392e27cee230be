package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAddress_AbsoluteInput(t *testing.T) {
	resolved := ResolveAddress("https://cdn.example.com", []string{"https://mirror.example.com"}, "https://elsewhere.com/pic.png")

	assert.Equal(t, []string{"https://elsewhere.com/pic.png"}, resolved.Addresses)
	assert.Equal(t, "png", resolved.Extension)
}

func TestResolveAddress_MirrorExpansion(t *testing.T) {
	resolved := ResolveAddress(
		"https://cdn.example.com/assets/",
		[]string{"https://mirror-a.example.com/assets", "https://mirror-b.example.com/assets"},
		"/sprites/hero.png",
	)

	assert.Equal(t, []string{
		"https://cdn.example.com/assets/sprites/hero.png",
		"https://mirror-a.example.com/assets/sprites/hero.png",
		"https://mirror-b.example.com/assets/sprites/hero.png",
	}, resolved.Addresses)
	assert.Equal(t, "png", resolved.Extension)
}

func TestResolveAddress_NoBase(t *testing.T) {
	resolved := ResolveAddress("", nil, "sprites/hero.json")
	assert.Equal(t, []string{"sprites/hero.json"}, resolved.Addresses)
	assert.Equal(t, "json", resolved.Extension)
}

func TestResolveAddress_ExtensionIgnoresQueryAndFragment(t *testing.T) {
	assert.Equal(t, "mp3", ResolveAddress("", nil, "theme.mp3?v=3").Extension)
	assert.Equal(t, "json", ResolveAddress("", nil, "data.JSON#section").Extension)
	assert.Equal(t, "", ResolveAddress("", nil, "api/sync").Extension)
}

func TestKindForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		kind Kind
	}{
		{"png", KindImage},
		{".JPG", KindImage},
		{"webp", KindImage},
		{"mp3", KindSound},
		{"ogg", KindSound},
		{"json", KindJSON},
		{"txt", KindText},
		{"xml", KindText},
		{"bin", KindBinary},
		{"", KindBinary},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.kind, KindForExtension(tc.ext), "extension %q", tc.ext)
	}
}

func TestKind_IsData(t *testing.T) {
	assert.True(t, KindJSON.IsData())
	assert.True(t, KindText.IsData())
	assert.True(t, KindBinary.IsData())
	assert.False(t, KindImage.IsData())
	assert.False(t, KindSound.IsData())
}
