package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

func TestHexToStorage(t *testing.T) {
	got, err := HexToStorage("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, "0xFF1A2B3C", got)

	got, err = HexToStorage("a0b1c2")
	require.NoError(t, err)
	assert.Equal(t, "0xFFA0B1C2", got)
}

func TestStorageToHex(t *testing.T) {
	got, err := StorageToHex("0xFF1A2B3C")
	require.NoError(t, err)
	assert.Equal(t, "#1A2B3C", got)
}

func TestColorRoundTrip(t *testing.T) {
	for i := 0; i < 0x1000000; i += 0x0F0F0F {
		c := fmt.Sprintf("#%06x", i)
		stored, err := HexToStorage(c)
		require.NoError(t, err)
		back, err := StorageToHex(stored)
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(c), back)
	}
}

func TestMalformedColors(t *testing.T) {
	for _, c := range []string{"", "#12345", "#1234567", "##123456", "12345", "#GGGGGG", "red"} {
		_, err := HexToStorage(c)
		assert.True(t, errors.HasCode(err, errors.ErrBadRequest), c)
	}
	for _, c := range []string{"", "#123456", "0x00123456", "0xFF12345", "FF123456"} {
		_, err := StorageToHex(c)
		assert.True(t, errors.HasCode(err, errors.ErrBadRequest), c)
	}
}
