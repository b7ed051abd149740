package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsObjectIDHex(t *testing.T) {
	cases := map[string]bool{
		"64b7f0c2a1b2c3d4e5f60718":  true,
		"64B7F0C2A1B2C3D4E5F60718":  true,
		"64b7f0c2a1b2c3d4e5f6071":   false,
		"64b7f0c2a1b2c3d4e5f607189": false,
		"zzb7f0c2a1b2c3d4e5f60718":  false,
		"":                          false,
		"undefined":                 false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsObjectIDHex(in), in)
	}
}

func TestParseObjectID(t *testing.T) {
	id, ok := ParseObjectID("64b7f0c2a1b2c3d4e5f60718")
	assert.True(t, ok)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", id.Hex())

	_, ok = ParseObjectID("nope")
	assert.False(t, ok)
}
