package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutNames(t *testing.T) {
	for _, l := range []Layout{LayoutMono, LayoutStereoIndependent, LayoutStereoLinked, LayoutLeftRight, LayoutMidSide} {
		got, err := ParseLayout(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLayout("MS")
	require.NoError(t, err)
	assert.Equal(t, LayoutMidSide, got)

	_, err = ParseLayout("surround")
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.Equal(t, "Layout(7)", Layout(7).String())
}

func TestLayoutChannels(t *testing.T) {
	assert.Equal(t, 1, LayoutMono.Channels())
	assert.Equal(t, 2, LayoutStereoIndependent.Channels())
	assert.Equal(t, 2, LayoutMidSide.Channels())
	assert.True(t, LayoutStereoLinked.Linked())
	assert.False(t, LayoutLeftRight.Linked())
}

func TestLayoutText(t *testing.T) {
	var l Layout
	require.NoError(t, l.UnmarshalText([]byte("linked")))
	assert.Equal(t, LayoutStereoLinked, l)

	b, err := LayoutLeftRight.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lr", string(b))

	_, err = Layout(-1).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.Error(t, l.UnmarshalText([]byte("quad")))
}
