// Package platform defines the hardware abstraction boundary for the
// gaming-platform device. Application code (role dispatch, VPN triggering,
// console power automation) programs against the Platform interface; the
// backends in this package supply either a deterministic in-memory
// simulation or the physical hardware implementation.
package platform

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DeviceRole selects which higher-level application the unit runs.
type DeviceRole string

const (
	// RoleClient is the user-facing controller.
	RoleClient DeviceRole = "client"
	// RoleServer is the console-facing controller.
	RoleServer DeviceRole = "server"
)

// Valid reports whether r is one of the recognized roles.
func (r DeviceRole) Valid() bool {
	return r == RoleClient || r == RoleServer
}

// LEDState enumerates every visual state the application can request.
type LEDState int

const (
	LEDOff LEDState = iota
	LEDConsoleOn
	LEDConsoleStandby
	LEDConsoleOff
	LEDVPNConnecting
	LEDVPNConnected
	LEDVPNError
	LEDQuerying
	LEDWaking
	LEDError
	LEDSystemError
	LEDSystemStartup
)

var ledStateNames = map[LEDState]string{
	LEDOff:            "off",
	LEDConsoleOn:      "console-on",
	LEDConsoleStandby: "console-standby",
	LEDConsoleOff:     "console-off",
	LEDVPNConnecting:  "vpn-connecting",
	LEDVPNConnected:   "vpn-connected",
	LEDVPNError:       "vpn-error",
	LEDQuerying:       "querying",
	LEDWaking:         "waking",
	LEDError:          "error",
	LEDSystemError:    "system-error",
	LEDSystemStartup:  "system-startup",
}

func (s LEDState) String() string {
	if name, ok := ledStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("led-state-%d", int(s))
}

// ParseLEDState maps a state name back to its LEDState value.
func ParseLEDState(name string) (LEDState, error) {
	for state, n := range ledStateNames {
		if n == name {
			return state, nil
		}
	}
	return LEDOff, fmt.Errorf("unknown LED state %q: %w", name, ErrInvalidParam)
}

// ButtonState is the momentary physical state of the hardware button.
// Debounce is the caller's responsibility; this layer reports raw state.
type ButtonState int

const (
	ButtonReleased ButtonState = 0
	ButtonPressed  ButtonState = 1
)

func (b ButtonState) String() string {
	if b == ButtonPressed {
		return "pressed"
	}
	return "released"
}

// PowerState is the observed power state of the attached game console.
type PowerState int

const (
	PowerUnknown PowerState = iota
	PowerOff
	PowerStandby
	PowerOn
)

func (p PowerState) String() string {
	switch p {
	case PowerOff:
		return "off"
	case PowerStandby:
		return "standby"
	case PowerOn:
		return "on"
	default:
		return "unknown"
	}
}

// ParsePowerState recognizes exactly "on", "standby" and "off"
// (case-sensitive). Anything else is rejected.
func ParsePowerState(s string) (PowerState, error) {
	switch s {
	case "on":
		return PowerOn, nil
	case "standby":
		return PowerStandby, nil
	case "off":
		return PowerOff, nil
	default:
		return PowerUnknown, fmt.Errorf("unknown power state %q: %w", s, ErrInvalidParam)
	}
}

// Counters tracks how many times each operation category ran. They are
// reset by re-initialization or an explicit ResetStats, never by Reset.
type Counters struct {
	Init       int `json:"init"`
	LEDSet     int `json:"led_set"`
	ButtonRead int `json:"button_read"`
	PowerQuery int `json:"power_query"`
	Wake       int `json:"wake"`
}

// Platform is the contract every backend must honor.
//
// Initialize and Close are idempotent. Read-only status queries
// (DeviceRole, ButtonState, ConsolePower) lazily initialize the backend;
// mutating operations (SetLEDState, SetLEDRGB, SendConsoleWake, Reset)
// instead fail with ErrNotInitialized when called before Initialize.
type Platform interface {
	// Initialize allocates or resets all backend state. Calling it on an
	// already-initialized backend is a no-op returning nil.
	Initialize(ctx context.Context) error

	// Close releases all resources. No-op when not initialized.
	Close() error

	// Version returns an implementation-identifying string, stable for
	// the process lifetime and never empty.
	Version() string

	// DeviceRole reports whether this unit runs the client or the server
	// application.
	DeviceRole() (DeviceRole, error)

	// SetLEDState requests a named visual state. The backend derives the
	// concrete color from the fixed state table.
	SetLEDState(state LEDState) error

	// SetLEDRGB drives the LED color directly, bypassing the state table.
	SetLEDRGB(r, g, b uint8) error

	// ButtonState reports the current raw button state.
	ButtonState() (ButtonState, error)

	// ConsolePower reports the observed console power state.
	ConsolePower() (PowerState, error)

	// SendConsoleWake issues a one-shot wake command. It never blocks
	// waiting for the console to power on; callers poll ConsolePower.
	SendConsoleWake() error

	// LastError returns the most recent failure message. The second
	// return is false when no failure occurred since the last reset,
	// cleanup or re-initialization.
	LastError() (string, bool)

	// Reset restores LED state, button state and the error slot to their
	// initial values. Counters and device role are untouched.
	Reset() error
}

// Controller is the test-support surface of the simulation backend. It
// bypasses normal operation semantics and never touches the counters.
// Production code should only ever hold a Platform.
type Controller interface {
	SetDeviceRole(role DeviceRole)
	SetButtonState(state ButtonState)
	SetConsolePower(power PowerState)
	Stats() Counters
	ResetStats()
}

// Backend names accepted by Config.Backend.
const (
	BackendMock     = "mock"
	BackendHardware = "hardware"
)

// Config selects and parameterizes the platform backend.
type Config struct {
	Backend  string         `yaml:"backend"`
	Hardware HardwareConfig `yaml:"hardware"`
}

// DefaultConfig returns a configuration suitable for development without
// physical hardware attached.
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendMock,
		Hardware: DefaultHardwareConfig(),
	}
}

// New constructs the backend selected by cfg.Backend.
func New(cfg *Config, log *logrus.Logger) (Platform, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case BackendMock, "":
		return NewMock(nil, log), nil
	case BackendHardware:
		return NewHardware(cfg.Hardware, log), nil
	default:
		return nil, fmt.Errorf("unknown platform backend %q: %w", cfg.Backend, ErrInvalidParam)
	}
}
