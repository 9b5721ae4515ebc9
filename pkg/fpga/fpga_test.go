package fpga_test

import (
	"context"
	"testing"

	"github.com/jihwankim/hrcls/pkg/fpga"
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitWithoutBitstreamIsNotSupported(t *testing.T) {
	l := fpga.New(registry.Simulated)
	require.NoError(t, l.Init())

	_, err := l.Submit(jobmodel.Job{FunctionName: "f", WCETUs: 1_000_000})
	require.Error(t, err)
	code, ok := halerr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, halerr.NotSupported, code)
}

func TestLoadBitstreamRejectsEmpty(t *testing.T) {
	l := fpga.New(registry.Simulated)
	require.NoError(t, l.Init())

	err := l.LoadBitstream(nil)
	require.Error(t, err)
	code, ok := halerr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, halerr.InvalidParam, code)
}

func TestLoadBitstreamDerivesDeterministicID(t *testing.T) {
	l := fpga.New(registry.Simulated)
	require.NoError(t, l.Init())

	before := l.BitstreamID()
	assert.Equal(t, "default_v1.0", before)

	require.NoError(t, l.LoadBitstream([]byte("bitstream-content")))
	id := l.BitstreamID()
	assert.NotEqual(t, before, id)
	assert.Regexp(t, `^custom_[0-9a-f]{8}$`, id)

	l2 := fpga.New(registry.Simulated)
	require.NoError(t, l2.Init())
	require.NoError(t, l2.LoadBitstream([]byte("bitstream-content")))
	assert.Equal(t, id, l2.BitstreamID(), "same content must derive the same id")
}

func TestLoadBitstreamEnablesSubmitAndRaisesUtilization(t *testing.T) {
	l := fpga.New(registry.Simulated)
	require.NoError(t, l.Init())

	idleUtil := l.GetUtilization()
	require.NoError(t, l.LoadBitstream([]byte("program")))
	loadedUtil := l.GetUtilization()
	assert.Greater(t, loadedUtil.LogicPercent, idleUtil.LogicPercent)

	jobID, err := l.Submit(jobmodel.Job{FunctionName: "f", Input: []byte("x"), OutputSize: 4, WCETUs: 1_000_000})
	require.NoError(t, err)

	result, err := l.Wait(context.Background(), jobID, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, jobmodel.StatusCompleted, result.Status)
	assert.Equal(t, jobmodel.LaneFPGA, result.Lane)
}

func TestHealthyRequiresBitstreamLoaded(t *testing.T) {
	l := fpga.New(registry.Simulated)
	require.NoError(t, l.Init())

	status := l.GetStatus()
	assert.True(t, status.Online)
	assert.False(t, status.Healthy, "online but unloaded FPGA lane must report unhealthy")

	require.NoError(t, l.LoadBitstream([]byte("program")))
	status = l.GetStatus()
	assert.True(t, status.Healthy)
}

func TestFPGAIDBaseIsDisjointFromCPU(t *testing.T) {
	assert.EqualValues(t, 1000, fpga.IDBase)
	assert.Equal(t, 16, fpga.Capacity)
}
