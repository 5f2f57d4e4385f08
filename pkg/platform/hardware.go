package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const hardwareVersion = "openwrt-hal-v0.1.0"

// HardwareConfig describes how the physical platform is wired up.
type HardwareConfig struct {
	// ButtonPin is the BCM number of the user button input.
	ButtonPin int `yaml:"button_pin"`

	// LED driver pins.
	LEDRedPin   int `yaml:"led_red_pin"`
	LEDGreenPin int `yaml:"led_green_pin"`
	LEDBluePin  int `yaml:"led_blue_pin"`

	// RoleADCChannel is the ADC channel carrying the role strap voltage.
	RoleADCChannel int `yaml:"role_adc_channel"`

	// CECDevice is the HDMI-CEC adapter used for console power control.
	CECDevice string `yaml:"cec_device"`
}

// DefaultHardwareConfig returns the pin assignment of the reference board.
func DefaultHardwareConfig() HardwareConfig {
	return HardwareConfig{
		ButtonPin:      17,
		LEDRedPin:      22,
		LEDGreenPin:    23,
		LEDBluePin:     24,
		RoleADCChannel: 0,
		CECDevice:      "/dev/cec0",
	}
}

// Hardware is the physical backend. Host bring-up and pin reservation are
// in place; the sensing and control paths are placeholders for the
// hardware team and currently return fixed defaults.
type Hardware struct {
	mu          sync.Mutex
	cfg         HardwareConfig
	log         *logrus.Entry
	initialized bool
	buttonPin   gpio.PinIO
}

var _ Platform = (*Hardware)(nil)

// NewHardware creates the physical backend for the given wiring.
func NewHardware(cfg HardwareConfig, log *logrus.Logger) *Hardware {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Hardware{
		cfg: cfg,
		log: log.WithField("component", "platform-hardware"),
	}
}

// Initialize brings up the periph.io host and reserves the configured
// pins. Idempotent.
func (h *Hardware) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	if _, err := host.Init(); err != nil {
		h.log.WithError(err).Error("failed to initialize periph host")
		return fmt.Errorf("failed to initialize periph host: %w", err)
	}

	h.buttonPin = gpioreg.ByName(fmt.Sprintf("GPIO%d", h.cfg.ButtonPin))
	if h.buttonPin == nil {
		h.log.WithField("pin", h.cfg.ButtonPin).Warn("button pin not registered on this board")
	}

	// TODO(hardware): configure the button pin as pulled-up input and
	// open the CEC adapter at h.cfg.CECDevice.
	h.initialized = true
	h.log.WithField("version", hardwareVersion).Info("hardware backend initialized")
	return nil
}

// Close releases hardware resources. No-op when not initialized.
func (h *Hardware) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		return nil
	}

	// TODO(hardware): release the CEC adapter and restore pin states.
	h.buttonPin = nil
	h.initialized = false
	h.log.Info("hardware backend closed")
	return nil
}

// Version identifies the hardware implementation.
func (h *Hardware) Version() string {
	return hardwareVersion
}

// ensureInit lazily initializes for read-only status queries.
func (h *Hardware) ensureInit() error {
	h.mu.Lock()
	initialized := h.initialized
	h.mu.Unlock()

	if initialized {
		return nil
	}
	return h.Initialize(context.Background())
}

// DeviceRole reports which application this unit should run.
func (h *Hardware) DeviceRole() (DeviceRole, error) {
	if err := h.ensureInit(); err != nil {
		return RoleClient, err
	}

	// TODO(hardware): read the role strap on ADC channel
	// h.cfg.RoleADCChannel and threshold it into client/server.
	h.log.Debug("device role query not implemented, reporting client")
	return RoleClient, nil
}

// SetLEDState requests a named visual state.
func (h *Hardware) SetLEDState(state LEDState) error {
	// TODO(hardware): drive the LED controller with the color and blink
	// pattern for this state.
	h.log.WithField("state", state.String()).Debug("set LED state not implemented")
	return nil
}

// SetLEDRGB drives the LED color directly.
func (h *Hardware) SetLEDRGB(r, g, b uint8) error {
	// TODO(hardware): PWM the pins at h.cfg.LEDRedPin/GreenPin/BluePin.
	h.log.WithField("rgb", RGB{R: r, G: g, B: b}).Debug("set LED RGB not implemented")
	return nil
}

// ButtonState reports the raw button state.
func (h *Hardware) ButtonState() (ButtonState, error) {
	if err := h.ensureInit(); err != nil {
		return ButtonReleased, err
	}

	// TODO(hardware): sample h.buttonPin. Debounce stays in the caller.
	return ButtonReleased, nil
}

// ConsolePower reports the observed console power state.
func (h *Hardware) ConsolePower() (PowerState, error) {
	if err := h.ensureInit(); err != nil {
		return PowerUnknown, err
	}

	// TODO(hardware): issue a CEC GIVE_DEVICE_POWER_STATUS on
	// h.cfg.CECDevice, with a short cache to avoid hammering the bus.
	return PowerUnknown, nil
}

// SendConsoleWake issues a one-shot wake command and returns without
// waiting for the console to power on.
func (h *Hardware) SendConsoleWake() error {
	// TODO(hardware): send CEC One Touch Play via h.cfg.CECDevice.
	h.log.Debug("console wake not implemented")
	return nil
}

// LastError reports the most recent failure. The stub never fails.
func (h *Hardware) LastError() (string, bool) {
	return "", false
}

// Reset restores the hardware layer to a known state.
func (h *Hardware) Reset() error {
	// TODO(hardware): turn the LED off and clear any cached CEC state.
	return nil
}
