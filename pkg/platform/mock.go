package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

const mockVersion = "mock-v1.0.0"

// Mock is the stateful simulation backend. It is fully deterministic and
// inspectable so application logic can be developed and tested without a
// physical device attached.
//
// Every operation is synchronous and returns promptly; there is no
// internal waiting or background polling. The instance is owned by the
// caller: construct it at startup, pass it into application code and
// Close it at shutdown.
type Mock struct {
	mu        sync.Mutex
	log       *logrus.Entry
	overrides Overrides

	initialized bool
	role        DeviceRole
	ledState    LEDState
	ledRGB      RGB
	button      ButtonState
	power       PowerState
	lastErr     string
	hasErr      bool
	stats       Counters
}

var (
	_ Platform   = (*Mock)(nil)
	_ Controller = (*Mock)(nil)
)

// NewMock creates a simulation backend. A nil overrides provider defaults
// to EnvOverrides; a nil logger defaults to the logrus standard logger.
func NewMock(overrides Overrides, log *logrus.Logger) *Mock {
	if overrides == nil {
		overrides = EnvOverrides{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Mock{
		log:       log.WithField("component", "platform-mock"),
		overrides: overrides,
		role:      RoleClient,
		power:     PowerOff,
	}
}

// Initialize allocates or resets all simulation state. Idempotent: when
// already initialized it returns nil without side effects.
func (m *Mock) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		m.log.Debug("already initialized")
		return nil
	}

	m.initLocked()
	return nil
}

// initLocked performs first-time or lazy initialization. Callers hold the
// mutex.
func (m *Mock) initLocked() {
	m.applyRoleOverrideLocked()

	m.ledState = LEDOff
	m.ledRGB = RGB{}
	m.button = ButtonReleased
	m.power = PowerOff
	m.lastErr = ""
	m.hasErr = false
	m.stats = Counters{}

	m.initialized = true
	m.stats.Init++

	m.log.WithFields(logrus.Fields{
		"device_role": m.role,
		"version":     mockVersion,
		"init_count":  m.stats.Init,
	}).Info("simulation backend initialized")
}

// applyRoleOverrideLocked consumes the role override. Only "client" and
// "server" are accepted; anything else keeps the current default and
// emits a diagnostic.
func (m *Mock) applyRoleOverrideLocked() {
	value, ok := m.overrides.Role()
	if !ok {
		return
	}

	role := DeviceRole(value)
	if !role.Valid() {
		m.log.WithField("value", value).Warn("invalid device role override, keeping default")
		return
	}

	m.role = role
	m.log.WithField("device_role", role).Info("device role set from override")
}

// ensureInitLocked lazily initializes for read-only status queries.
func (m *Mock) ensureInitLocked() {
	if !m.initialized {
		m.initLocked()
	}
}

// Close releases the simulation state. No-op when not initialized.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	m.log.WithFields(logrus.Fields{
		"init_count":        m.stats.Init,
		"led_set_count":     m.stats.LEDSet,
		"button_read_count": m.stats.ButtonRead,
		"power_query_count": m.stats.PowerQuery,
		"wake_count":        m.stats.Wake,
	}).Info("simulation backend closed")

	m.initialized = false
	return nil
}

// Version returns the simulation's identifying string.
func (m *Mock) Version() string {
	return mockVersion
}

// DeviceRole reports the configured role, lazily initializing if needed.
func (m *Mock) DeviceRole() (DeviceRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureInitLocked()
	return m.role, nil
}

// SetLEDState requests a named visual state. The valid domain is the
// contiguous range LEDOff through LEDError; system-error and
// system-startup exist in the enumeration but are reserved for the boot
// firmware and rejected here.
func (m *Mock) SetLEDState(state LEDState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.failLocked("set_led_state", ErrNotInitialized, "platform not initialized")
	}

	if state < LEDOff || state > LEDError {
		return m.failLocked("set_led_state", ErrInvalidParam, fmt.Sprintf("invalid LED state: %d", state))
	}

	m.ledState = state
	m.ledRGB = ColorFor(state)
	m.stats.LEDSet++

	m.log.WithFields(logrus.Fields{
		"state": state.String(),
		"rgb":   m.ledRGB,
		"count": m.stats.LEDSet,
	}).Debug("LED state set")

	return nil
}

// SetLEDRGB overwrites the color triple directly. The tracked LED state
// is left untouched; only the derived color changes.
func (m *Mock) SetLEDRGB(r, g, b uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.failLocked("set_led_rgb", ErrNotInitialized, "platform not initialized")
	}

	m.ledRGB = RGB{R: r, G: g, B: b}
	m.stats.LEDSet++

	m.log.WithFields(logrus.Fields{
		"rgb":   m.ledRGB,
		"count": m.stats.LEDSet,
	}).Debug("LED RGB set")

	return nil
}

// LED returns the last requested LED state and its derived color triple.
// The simulation keeps only the most recent request, no history.
func (m *Mock) LED() (LEDState, RGB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledState, m.ledRGB
}

// ButtonState reports the raw button state. An override value of "1" or
// "pressed" wins over stored state on every call; any other value falls
// through to whatever was last stored.
func (m *Mock) ButtonState() (ButtonState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureInitLocked()
	m.stats.ButtonRead++

	state := m.button
	if value, ok := m.overrides.Button(); ok && (value == "1" || value == "pressed") {
		state = ButtonPressed
	}

	m.log.WithFields(logrus.Fields{
		"state": state.String(),
		"count": m.stats.ButtonRead,
	}).Debug("button state queried")

	return state, nil
}

// ConsolePower reports the observed console power state. Overrides
// recognize exactly "on", "standby" and "off"; anything else falls
// through to stored state.
func (m *Mock) ConsolePower() (PowerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureInitLocked()
	m.stats.PowerQuery++

	power := m.power
	if value, ok := m.overrides.Power(); ok {
		if parsed, err := ParsePowerState(value); err == nil {
			power = parsed
		}
	}

	m.log.WithFields(logrus.Fields{
		"power": power.String(),
		"count": m.stats.PowerQuery,
	}).Debug("console power queried")

	return power, nil
}

// SendConsoleWake issues the wake command. The simulation transitions the
// tracked power state to on immediately; a physical backend would fire a
// one-shot command and leave confirmation to ConsolePower polling.
func (m *Mock) SendConsoleWake() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.failLocked("send_console_wake", ErrNotInitialized, "platform not initialized")
	}

	m.stats.Wake++
	m.power = PowerOn

	m.log.WithField("count", m.stats.Wake).Info("console wake command sent, power now on")
	return nil
}

// LastError returns the most recent failure message. The bool is false
// when no failure occurred since the last reset or re-initialization.
func (m *Mock) LastError() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr, m.hasErr
}

// Reset restores LED state, button state and the error slot to their
// initial values. Counters, device role and console power are untouched.
func (m *Mock) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.failLocked("reset", ErrNotInitialized, "platform not initialized")
	}

	m.ledState = LEDOff
	m.ledRGB = RGB{}
	m.button = ButtonReleased
	m.lastErr = ""
	m.hasErr = false

	m.log.Info("platform reset")
	return nil
}

// failLocked records a failure in the error slot and returns the
// operation error. Callers hold the mutex.
func (m *Mock) failLocked(op string, kind error, msg string) error {
	m.lastErr = msg
	m.hasErr = true
	return newOpError(op, kind)
}

// Test-support control surface. These bypass normal operation semantics
// and never touch the counters; production code should only hold the
// Platform interface.

// SetDeviceRole forces the device role. Unrecognized roles are ignored.
func (m *Mock) SetDeviceRole(role DeviceRole) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !role.Valid() {
		return
	}
	m.role = role
	m.log.WithField("device_role", role).Debug("device role set by test control")
}

// SetButtonState forces the stored button state.
func (m *Mock) SetButtonState(state ButtonState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.button = state
}

// SetConsolePower forces the stored console power state.
func (m *Mock) SetConsolePower(power PowerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.power = power
}

// Stats returns a copy of the operation counters.
func (m *Mock) Stats() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResetStats zeroes all operation counters.
func (m *Mock) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Counters{}
}
