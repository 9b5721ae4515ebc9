package halerr_test

import (
	"fmt"
	"testing"

	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := halerr.New(halerr.Busy, "slot table full")

	code, ok := halerr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, halerr.Busy, code)

	wrapped := fmt.Errorf("submit failed: %w", err)
	code, ok = halerr.CodeOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, halerr.Busy, code)
}

func TestCodeOfNotAnError(t *testing.T) {
	_, ok := halerr.CodeOf(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestErrUnknownJobIsInvalidParam(t *testing.T) {
	code, ok := halerr.CodeOf(halerr.ErrUnknownJob)
	require.True(t, ok)
	assert.Equal(t, halerr.InvalidParam, code)
}

func TestCodeStringValues(t *testing.T) {
	cases := map[halerr.Code]string{
		halerr.Success:      "Success",
		halerr.InvalidParam: "InvalidParam",
		halerr.NoMemory:     "NoMemory",
		halerr.Timeout:      "Timeout",
		halerr.Hardware:     "Hardware",
		halerr.Busy:         "Busy",
		halerr.NotSupported: "NotSupported",
		halerr.LaneOffline:  "LaneOffline",
	}
	for code, want := range cases {
		assert.Equal(t, want, code.String())
	}
}

func TestErrorCodeNumericValuesAreStable(t *testing.T) {
	assert.EqualValues(t, 0, halerr.Success)
	assert.EqualValues(t, -1, halerr.InvalidParam)
	assert.EqualValues(t, -2, halerr.NoMemory)
	assert.EqualValues(t, -3, halerr.Timeout)
	assert.EqualValues(t, -4, halerr.Hardware)
	assert.EqualValues(t, -5, halerr.Busy)
	assert.EqualValues(t, -6, halerr.NotSupported)
	assert.EqualValues(t, -7, halerr.LaneOffline)
}
