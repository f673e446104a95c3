package wrapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memory_config "github.com/openvest/vesting-server/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	ctx := context.Background()

	override := memory_config.NewConfig(nil)
	conf := NewBoolConfig(override, true)

	val, err := conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.True(t, val)

	override.SetValue(false)
	val, err = conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.False(t, val)

	// Errors fall back to the last known value
	override.InduceErrors()
	val, err = conf.GetSafe(ctx)
	assert.Error(t, err)
	assert.False(t, val)
}

func TestUint64Config(t *testing.T) {
	ctx := context.Background()

	override := memory_config.NewConfig(nil)
	conf := NewUint64Config(override, 42)

	val, err := conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 42, val)

	override.SetValue(uint64(123))
	val, err = conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 123, val)

	override.SetValue([]byte("456"))
	val, err = conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 456, val)

	override.SetValue("not a number")
	_, err = conf.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
}

func TestStringConfig(t *testing.T) {
	ctx := context.Background()

	override := memory_config.NewConfig(nil)
	conf := NewStringConfig(override, "default")

	val, err := conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", val)

	override.SetValue("override")
	val, err = conf.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "override", val)
}
