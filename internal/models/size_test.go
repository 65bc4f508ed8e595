package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	s, err := ParseSize("1,640,480")
	require.NoError(t, err)
	require.Equal(t, Size{Items: 1, Width: 640, Height: 480}, s)
	require.Equal(t, "1,640,480", s.String())

	s, err = ParseSize("1,100,200,3")
	require.NoError(t, err)
	require.Equal(t, 3, s.Depth)
	require.Equal(t, "1,100,200,3", s.String())

	s, err = ParseSize("1,100.0,200.0")
	require.NoError(t, err)
	require.Equal(t, 100, s.Width)
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "1,2", "1,a,3", "1,2,3,4,5", "1,10.5,3"} {
		_, err := ParseSize(in)
		require.Error(t, err, in)
	}
}

func TestSplit(t *testing.T) {
	require.True(t, SplitTest.Valid())
	require.False(t, Split(3).Valid())
	require.Equal(t, "val", SplitVal.String())
}
