package platform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLEDState_String(t *testing.T) {
	assert.Equal(t, "off", LEDOff.String())
	assert.Equal(t, "console-standby", LEDConsoleStandby.String())
	assert.Equal(t, "system-startup", LEDSystemStartup.String())
	assert.Equal(t, "led-state-42", LEDState(42).String())
}

func TestParseLEDState(t *testing.T) {
	for state, name := range ledStateNames {
		parsed, err := ParseLEDState(name)
		require.NoError(t, err)
		assert.Equal(t, state, parsed)
	}

	_, err := ParseLEDState("disco")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestParsePowerState(t *testing.T) {
	tests := []struct {
		input   string
		want    PowerState
		wantErr bool
	}{
		{"on", PowerOn, false},
		{"standby", PowerStandby, false},
		{"off", PowerOff, false},
		{"On", PowerUnknown, true},
		{"STANDBY", PowerUnknown, true},
		{"", PowerUnknown, true},
		{"sleeping", PowerUnknown, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("input=%q", tt.input), func(t *testing.T) {
			got, err := ParsePowerState(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviceRole_Valid(t *testing.T) {
	assert.True(t, RoleClient.Valid())
	assert.True(t, RoleServer.Valid())
	assert.False(t, DeviceRole("tablet").Valid())
	assert.False(t, DeviceRole("Client").Valid())
	assert.False(t, DeviceRole("").Valid())
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, ResultOK},
		{"not initialized", ErrNotInitialized, ResultErrorInit},
		{"invalid param", ErrInvalidParam, ResultErrorParam},
		{"timeout", ErrTimeout, ResultErrorTimeout},
		{"not found", ErrNotFound, ResultErrorNotFound},
		{"wrapped kind", newOpError("reset", ErrNotInitialized), ResultErrorInit},
		{"fmt-wrapped kind", fmt.Errorf("led: %w", ErrInvalidParam), ResultErrorParam},
		{"unrecognized", errors.New("boom"), ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultOf(tt.err))
		})
	}
}

func TestPlatformError(t *testing.T) {
	err := newOpError("send_console_wake", ErrTimeout)

	assert.EqualError(t, err, "platform send_console_wake failed: operation timed out")
	assert.ErrorIs(t, err, ErrTimeout)

	var opErr *PlatformError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "send_console_wake", opErr.Op)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, RGB{0, 0, 255}, ColorFor(LEDVPNConnecting))
	assert.Equal(t, RGB{128, 0, 255}, ColorFor(LEDWaking))

	// States outside the table map to black.
	assert.Equal(t, RGB{}, ColorFor(LEDSystemError))
	assert.Equal(t, RGB{}, ColorFor(LEDState(99)))

	// Deployed palette duplication, kept intentionally.
	assert.Equal(t, ColorFor(LEDError), ColorFor(LEDConsoleOff))
	assert.Equal(t, ColorFor(LEDConsoleOn), ColorFor(LEDVPNConnected))
}

func TestNew(t *testing.T) {
	t.Run("nil config defaults to mock", func(t *testing.T) {
		p, err := New(nil, testLogger())
		require.NoError(t, err)
		_, ok := p.(*Mock)
		assert.True(t, ok)
	})

	t.Run("empty backend defaults to mock", func(t *testing.T) {
		p, err := New(&Config{}, testLogger())
		require.NoError(t, err)
		_, ok := p.(*Mock)
		assert.True(t, ok)
	})

	t.Run("hardware backend", func(t *testing.T) {
		p, err := New(&Config{Backend: BackendHardware, Hardware: DefaultHardwareConfig()}, testLogger())
		require.NoError(t, err)
		_, ok := p.(*Hardware)
		assert.True(t, ok)
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		p, err := New(&Config{Backend: "fpga"}, testLogger())
		require.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrInvalidParam)
	})
}

func TestOverrideProviders(t *testing.T) {
	t.Run("static absent while empty", func(t *testing.T) {
		s := &StaticOverrides{}
		_, ok := s.Role()
		assert.False(t, ok)
		_, ok = s.Button()
		assert.False(t, ok)
		_, ok = s.Power()
		assert.False(t, ok)

		s.ConsolePower = "standby"
		v, ok := s.Power()
		assert.True(t, ok)
		assert.Equal(t, "standby", v)
	})

	t.Run("env provider reads process environment", func(t *testing.T) {
		t.Setenv(EnvConsolePower, "on")
		v, ok := EnvOverrides{}.Power()
		assert.True(t, ok)
		assert.Equal(t, "on", v)
	})

	t.Run("no overrides never supplies", func(t *testing.T) {
		_, ok := NoOverrides{}.Role()
		assert.False(t, ok)
	})
}
