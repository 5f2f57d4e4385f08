package platform

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestMock returns a mock with no overrides so stored state is
// authoritative regardless of the test environment.
func newTestMock(t *testing.T) *Mock {
	t.Helper()
	m := NewMock(NoOverrides{}, testLogger())
	require.NoError(t, m.Initialize(context.Background()))
	return m
}

func TestMock_InitializeIdempotent(t *testing.T) {
	m := NewMock(NoOverrides{}, testLogger())
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Initialize(ctx))

	assert.Equal(t, 1, m.Stats().Init, "second initialize must not advance the counter")
}

func TestMock_CloseIdempotent(t *testing.T) {
	m := NewMock(NoOverrides{}, testLogger())

	// Close before initialize is a no-op.
	require.NoError(t, m.Close())

	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestMock_Version(t *testing.T) {
	m := NewMock(NoOverrides{}, testLogger())
	assert.NotEmpty(t, m.Version())

	require.NoError(t, m.Initialize(context.Background()))
	assert.Equal(t, mockVersion, m.Version())
}

func TestMock_SetLEDState_ColorTable(t *testing.T) {
	tests := []struct {
		state LEDState
		want  RGB
	}{
		{LEDOff, RGB{0, 0, 0}},
		{LEDConsoleOn, RGB{0, 255, 0}},
		{LEDConsoleStandby, RGB{0, 0, 0}}, // no table entry, falls back to black
		{LEDConsoleOff, RGB{255, 0, 0}},
		{LEDVPNConnecting, RGB{0, 0, 255}},
		{LEDVPNConnected, RGB{0, 255, 0}},
		{LEDVPNError, RGB{0, 0, 0}}, // no table entry
		{LEDQuerying, RGB{255, 255, 0}},
		{LEDWaking, RGB{128, 0, 255}},
		{LEDError, RGB{255, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			m := newTestMock(t)

			require.NoError(t, m.SetLEDState(tt.state))

			state, rgb := m.LED()
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.want, rgb)
		})
	}
}

func TestMock_SetLEDState_InvalidStates(t *testing.T) {
	tests := []struct {
		name  string
		state LEDState
	}{
		{"system-error outside validated range", LEDSystemError},
		{"system-startup outside validated range", LEDSystemStartup},
		{"negative value", LEDState(-1)},
		{"value past enumeration", LEDState(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMock(t)
			require.NoError(t, m.SetLEDState(LEDQuerying))

			err := m.SetLEDState(tt.state)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParam)
			assert.Equal(t, ResultErrorParam, ResultOf(err))

			// Prior state must be left untouched.
			state, rgb := m.LED()
			assert.Equal(t, LEDQuerying, state)
			assert.Equal(t, RGB{255, 255, 0}, rgb)

			msg, ok := m.LastError()
			assert.True(t, ok)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMock_SetLEDRGB_BypassesStateTable(t *testing.T) {
	m := newTestMock(t)

	require.NoError(t, m.SetLEDState(LEDVPNConnected))
	require.NoError(t, m.SetLEDRGB(10, 20, 30))

	state, rgb := m.LED()
	assert.Equal(t, LEDVPNConnected, state, "direct RGB writes do not change the tracked state")
	assert.Equal(t, RGB{10, 20, 30}, rgb)
}

func TestMock_NotInitializedFailures(t *testing.T) {
	tests := []struct {
		name string
		call func(m *Mock) error
	}{
		{"set_led_state", func(m *Mock) error { return m.SetLEDState(LEDOff) }},
		{"set_led_rgb", func(m *Mock) error { return m.SetLEDRGB(1, 2, 3) }},
		{"send_console_wake", func(m *Mock) error { return m.SendConsoleWake() }},
		{"reset", func(m *Mock) error { return m.Reset() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock(NoOverrides{}, testLogger())

			err := tt.call(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotInitialized)
			assert.Equal(t, ResultErrorInit, ResultOf(err))

			msg, ok := m.LastError()
			assert.True(t, ok)
			assert.NotEmpty(t, msg)

			var opErr *PlatformError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, tt.name, opErr.Op)
		})
	}
}

func TestMock_ReadOnlyQueriesAutoInitialize(t *testing.T) {
	t.Run("device role", func(t *testing.T) {
		m := NewMock(NoOverrides{}, testLogger())
		role, err := m.DeviceRole()
		require.NoError(t, err)
		assert.Equal(t, RoleClient, role)
		assert.Equal(t, 1, m.Stats().Init)
	})

	t.Run("button state", func(t *testing.T) {
		m := NewMock(NoOverrides{}, testLogger())
		state, err := m.ButtonState()
		require.NoError(t, err)
		assert.Equal(t, ButtonReleased, state)
		assert.Equal(t, 1, m.Stats().Init)
	})

	t.Run("console power", func(t *testing.T) {
		m := NewMock(NoOverrides{}, testLogger())
		power, err := m.ConsolePower()
		require.NoError(t, err)
		assert.Equal(t, PowerOff, power)
		assert.Equal(t, 1, m.Stats().Init)
	})
}

func TestMock_ButtonOverridePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		override string
		stored   ButtonState
		want     ButtonState
	}{
		{"override 1 wins over stored released", "1", ButtonReleased, ButtonPressed},
		{"override pressed wins over stored released", "pressed", ButtonReleased, ButtonPressed},
		{"unrecognized override falls through to stored", "maybe", ButtonPressed, ButtonPressed},
		{"unrecognized override falls through to released", "0", ButtonReleased, ButtonReleased},
		{"absent override returns stored", "", ButtonPressed, ButtonPressed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides := &StaticOverrides{ButtonState: tt.override}
			m := NewMock(overrides, testLogger())
			require.NoError(t, m.Initialize(context.Background()))
			m.SetButtonState(tt.stored)

			// The override must win on every read, not just the first.
			for i := 0; i < 3; i++ {
				state, err := m.ButtonState()
				require.NoError(t, err)
				assert.Equal(t, tt.want, state)
			}

			// Stored state stays untouched by overridden reads.
			overrides.ButtonState = ""
			state, err := m.ButtonState()
			require.NoError(t, err)
			assert.Equal(t, tt.stored, state)
		})
	}
}

func TestMock_ButtonOverrideFromEnvironment(t *testing.T) {
	t.Setenv(EnvButtonState, "1")

	m := NewMock(nil, testLogger()) // nil defaults to EnvOverrides
	require.NoError(t, m.Initialize(context.Background()))

	state, err := m.ButtonState()
	require.NoError(t, err)
	assert.Equal(t, ButtonPressed, state)

	t.Setenv(EnvButtonState, "0")
	state, err = m.ButtonState()
	require.NoError(t, err)
	assert.Equal(t, ButtonReleased, state, "cleared override falls back to stored state")
}

func TestMock_PowerOverridePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		override string
		stored   PowerState
		want     PowerState
	}{
		{"on", "on", PowerOff, PowerOn},
		{"standby", "standby", PowerOff, PowerStandby},
		{"off", "off", PowerOn, PowerOff},
		{"case-sensitive, ON rejected", "ON", PowerStandby, PowerStandby},
		{"garbage falls through", "warp", PowerOn, PowerOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock(&StaticOverrides{ConsolePower: tt.override}, testLogger())
			require.NoError(t, m.Initialize(context.Background()))
			m.SetConsolePower(tt.stored)

			power, err := m.ConsolePower()
			require.NoError(t, err)
			assert.Equal(t, tt.want, power)
		})
	}
}

func TestMock_WakeTransitionsPowerOn(t *testing.T) {
	m := newTestMock(t)

	power, err := m.ConsolePower()
	require.NoError(t, err)
	assert.Equal(t, PowerOff, power)

	require.NoError(t, m.SendConsoleWake())

	power, err = m.ConsolePower()
	require.NoError(t, err)
	assert.Equal(t, PowerOn, power)
}

func TestMock_Counters(t *testing.T) {
	m := newTestMock(t)

	// Two valid LED sets, one invalid attempt.
	require.NoError(t, m.SetLEDState(LEDVPNConnecting))
	require.NoError(t, m.SetLEDState(LEDVPNConnected))
	require.Error(t, m.SetLEDState(LEDSystemError))

	for i := 0; i < 5; i++ {
		_, err := m.ButtonState()
		require.NoError(t, err)
	}

	require.NoError(t, m.SendConsoleWake())
	require.NoError(t, m.SendConsoleWake())

	stats := m.Stats()
	assert.Equal(t, Counters{
		Init:       1,
		LEDSet:     2,
		ButtonRead: 5,
		PowerQuery: 0,
		Wake:       2,
	}, stats)
}

func TestMock_CountersSurviveReset(t *testing.T) {
	m := newTestMock(t)

	require.NoError(t, m.SetLEDState(LEDWaking))
	require.NoError(t, m.Reset())

	assert.Equal(t, 1, m.Stats().LEDSet)

	m.ResetStats()
	assert.Equal(t, Counters{}, m.Stats())
}

func TestMock_ErrorSlot(t *testing.T) {
	m := NewMock(NoOverrides{}, testLogger())

	_, ok := m.LastError()
	assert.False(t, ok, "fresh backend has no error")

	require.Error(t, m.SetLEDState(LEDOff)) // not initialized
	msg, ok := m.LastError()
	assert.True(t, ok)
	assert.NotEmpty(t, msg)

	// Initialization clears the slot.
	require.NoError(t, m.Initialize(context.Background()))
	_, ok = m.LastError()
	assert.False(t, ok)

	// A new failure overwrites, reset clears again.
	require.Error(t, m.SetLEDState(LEDState(99)))
	_, ok = m.LastError()
	assert.True(t, ok)

	require.NoError(t, m.Reset())
	_, ok = m.LastError()
	assert.False(t, ok)
}

func TestMock_ResetRestoresState(t *testing.T) {
	m := newTestMock(t)

	require.NoError(t, m.SetLEDState(LEDWaking))
	m.SetButtonState(ButtonPressed)
	m.SetConsolePower(PowerStandby)

	require.NoError(t, m.Reset())

	state, rgb := m.LED()
	assert.Equal(t, LEDOff, state)
	assert.Equal(t, RGB{}, rgb)

	button, err := m.ButtonState()
	require.NoError(t, err)
	assert.Equal(t, ButtonReleased, button)

	// Console power is not part of reset.
	power, err := m.ConsolePower()
	require.NoError(t, err)
	assert.Equal(t, PowerStandby, power)
}

func TestMock_RoleOverride(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     DeviceRole
	}{
		{"server accepted", "server", RoleServer},
		{"client accepted", "client", RoleClient},
		{"invalid value keeps default", "tablet", RoleClient},
		{"case-sensitive, Server rejected", "Server", RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock(&StaticOverrides{DeviceRole: tt.override}, testLogger())
			require.NoError(t, m.Initialize(context.Background()))

			role, err := m.DeviceRole()
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestMock_RoleOverrideFromEnvironment(t *testing.T) {
	t.Setenv(EnvDeviceRole, "server")

	m := NewMock(nil, testLogger())
	role, err := m.DeviceRole()
	require.NoError(t, err)
	assert.Equal(t, RoleServer, role)
}

func TestMock_RoleOverrideConsumedAtInitOnly(t *testing.T) {
	overrides := &StaticOverrides{DeviceRole: "server"}
	m := NewMock(overrides, testLogger())
	require.NoError(t, m.Initialize(context.Background()))

	// Changing the override after initialization has no effect on reads.
	overrides.DeviceRole = "client"
	role, err := m.DeviceRole()
	require.NoError(t, err)
	assert.Equal(t, RoleServer, role)
}

func TestMock_TestControlBypassesCounters(t *testing.T) {
	m := newTestMock(t)

	m.SetDeviceRole(RoleServer)
	m.SetButtonState(ButtonPressed)
	m.SetConsolePower(PowerOn)
	m.SetDeviceRole(DeviceRole("toaster")) // ignored

	assert.Equal(t, Counters{Init: 1}, m.Stats())

	role, err := m.DeviceRole()
	require.NoError(t, err)
	assert.Equal(t, RoleServer, role)
}

func TestMock_ReinitializeResetsCounters(t *testing.T) {
	m := newTestMock(t)

	require.NoError(t, m.SetLEDState(LEDError))
	require.NoError(t, m.Close())
	require.NoError(t, m.Initialize(context.Background()))

	assert.Equal(t, Counters{Init: 1}, m.Stats())
}
