package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		depth int
	}{
		{"/", "/", 0},
		{"/devices", "/devices", 1},
		{"/devices/", "/devices", 1},
		{"/devices/device1.data", "/devices/device1.data", 2},
		{"/a/b/c", "/a/b/c", 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
			assert.Equal(t, tt.depth, p.Depth())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "devices", "//", "/a//b", "/a/./b", "/a/../b", "/a\\b", "/a\x00"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestPath_Navigation(t *testing.T) {
	p := MustParse("/devices/ios/device1.data")

	assert.Equal(t, "device1.data", p.Name())
	assert.Equal(t, MustParse("/devices/ios"), p.Parent())
	assert.Equal(t, Root(), MustParse("/devices").Parent())
	assert.Equal(t, Root(), Root().Parent())
	assert.Equal(t, []string{"devices", "ios", "device1.data"}, p.Components())
	assert.Nil(t, Root().Components())
	assert.True(t, Root().IsRoot())
	assert.False(t, p.IsRoot())
	assert.Equal(t, "", Root().Name())
}

func TestPath_Append(t *testing.T) {
	p, err := Root().Append("devices", "device1.data")
	require.NoError(t, err)
	assert.Equal(t, "/devices/device1.data", p.String())

	_, err = p.Append("..")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = p.Append("a/b")
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.Panics(t, func() { Root().MustAppend("") })
}

func TestPath_HasPrefix(t *testing.T) {
	p := MustParse("/devices/ios/device1.data")
	assert.True(t, p.HasPrefix(Root()))
	assert.True(t, p.HasPrefix(MustParse("/devices")))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(MustParse("/dev")))
	assert.False(t, MustParse("/devicesX").HasPrefix(MustParse("/devices")))
}

func TestPath_Text(t *testing.T) {
	var p Path
	require.NoError(t, p.UnmarshalText([]byte("/a/b")))
	assert.Equal(t, MustParse("/a/b"), p)
	b, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "/a/b", string(b))
	assert.Error(t, p.UnmarshalText([]byte("a")))
}
