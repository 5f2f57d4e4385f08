package platform

import "os"

// Overrides supplies out-of-band values that take precedence over stored
// simulation state for a single read. The role override is consumed once
// at initialization; button and power overrides are consulted on every
// read so tests can force a value without mutating internal state.
type Overrides interface {
	Role() (string, bool)
	Button() (string, bool)
	Power() (string, bool)
}

// Environment variables consulted by EnvOverrides.
const (
	EnvDeviceRole   = "MOCK_DEVICE_ROLE"
	EnvButtonState  = "MOCK_BUTTON_STATE"
	EnvConsolePower = "MOCK_CONSOLE_POWER"
)

// EnvOverrides reads override values from the process environment. It is
// the default provider of the simulation backend, matching how test
// automation drives the device without code changes.
type EnvOverrides struct{}

func (EnvOverrides) Role() (string, bool)   { return os.LookupEnv(EnvDeviceRole) }
func (EnvOverrides) Button() (string, bool) { return os.LookupEnv(EnvButtonState) }
func (EnvOverrides) Power() (string, bool)  { return os.LookupEnv(EnvConsolePower) }

// StaticOverrides supplies fixed override values programmatically. A
// field is treated as absent while it is empty.
type StaticOverrides struct {
	DeviceRole   string
	ButtonState  string
	ConsolePower string
}

func (s *StaticOverrides) Role() (string, bool) {
	return s.DeviceRole, s.DeviceRole != ""
}

func (s *StaticOverrides) Button() (string, bool) {
	return s.ButtonState, s.ButtonState != ""
}

func (s *StaticOverrides) Power() (string, bool) {
	return s.ConsolePower, s.ConsolePower != ""
}

// NoOverrides never supplies a value. Production deployments use it so
// stored state is always authoritative.
type NoOverrides struct{}

func (NoOverrides) Role() (string, bool)   { return "", false }
func (NoOverrides) Button() (string, bool) { return "", false }
func (NoOverrides) Power() (string, bool)  { return "", false }
