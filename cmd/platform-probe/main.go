// platform-probe exercises a platform backend from the command line. It
// drives the backend in-process, which makes it useful on the bench with
// real hardware and in scripted checks against the simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gamelink/platform-controller/pkg/platform"
)

var (
	backendName = flag.String("backend", "mock", "Platform backend: mock or hardware")
	command     = flag.String("cmd", "status", "Command to execute: version, role, button, power, led, rgb, wake, reset, status, stats, demo")
	ledState    = flag.String("state", "off", "LED state name for the led command")
	red         = flag.Int("r", 0, "Red component for the rgb command (0-255)")
	green       = flag.Int("g", 0, "Green component for the rgb command (0-255)")
	blue        = flag.Int("b", 0, "Blue component for the rgb command (0-255)")
	verbose     = flag.Bool("v", false, "Log backend activity")
)

func main() {
	flag.Parse()

	logrusLog := logrus.New()
	if *verbose {
		logrusLog.SetLevel(logrus.DebugLevel)
	} else {
		logrusLog.SetOutput(io.Discard)
	}

	backend, err := platform.New(&platform.Config{
		Backend:  *backendName,
		Hardware: platform.DefaultHardwareConfig(),
	}, logrusLog)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := backend.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer backend.Close()

	switch *command {
	case "version":
		showVersion(backend)
	case "role":
		showRole(backend)
	case "button":
		showButton(backend)
	case "power":
		showPower(backend)
	case "led":
		setLED(backend, *ledState)
	case "rgb":
		setRGB(backend, *red, *green, *blue)
	case "wake":
		sendWake(backend)
	case "reset":
		resetPlatform(backend)
	case "status":
		showStatus(backend)
	case "stats":
		showStats(backend)
	case "demo":
		runDemo(backend)
	default:
		fmt.Printf("Unknown command: %s\n", *command)
		fmt.Println("Available commands: version, role, button, power, led, rgb, wake, reset, status, stats, demo")
	}
}

func showVersion(backend platform.Platform) {
	fmt.Printf("HAL version: %s\n", backend.Version())
}

func showRole(backend platform.Platform) {
	role, err := backend.DeviceRole()
	if err != nil {
		log.Printf("Role query failed: %v", err)
		return
	}
	fmt.Printf("Device role: %s\n", role)
}

func showButton(backend platform.Platform) {
	state, err := backend.ButtonState()
	if err != nil {
		log.Printf("Button query failed: %v", err)
		return
	}
	fmt.Printf("Button: %s\n", state)
}

func showPower(backend platform.Platform) {
	power, err := backend.ConsolePower()
	if err != nil {
		log.Printf("Power query failed: %v", err)
		return
	}
	fmt.Printf("Console power: %s\n", power)
}

func setLED(backend platform.Platform, name string) {
	state, err := platform.ParseLEDState(name)
	if err != nil {
		log.Printf("Bad LED state: %v", err)
		return
	}

	if err := backend.SetLEDState(state); err != nil {
		log.Printf("LED set failed: %v (result %d)", err, platform.ResultOf(err))
		printLastError(backend)
		return
	}

	color := platform.ColorFor(state)
	fmt.Printf("LED set to %s (r=%d g=%d b=%d)\n", state, color.R, color.G, color.B)
}

func setRGB(backend platform.Platform, r, g, b int) {
	if err := backend.SetLEDRGB(uint8(r), uint8(g), uint8(b)); err != nil {
		log.Printf("RGB set failed: %v", err)
		return
	}
	fmt.Printf("LED color set to r=%d g=%d b=%d\n", r, g, b)
}

func sendWake(backend platform.Platform) {
	if err := backend.SendConsoleWake(); err != nil {
		log.Printf("Wake failed: %v", err)
		return
	}
	fmt.Println("Console wake command sent")

	power, err := backend.ConsolePower()
	if err == nil {
		fmt.Printf("Console power now: %s\n", power)
	}
}

func resetPlatform(backend platform.Platform) {
	if err := backend.Reset(); err != nil {
		log.Printf("Reset failed: %v", err)
		return
	}
	fmt.Println("Platform reset")
}

func showStatus(backend platform.Platform) {
	showVersion(backend)
	showRole(backend)
	showButton(backend)
	showPower(backend)
	printLastError(backend)
}

func showStats(backend platform.Platform) {
	controller, ok := backend.(platform.Controller)
	if !ok {
		fmt.Println("Backend does not expose operation counters")
		return
	}

	stats := controller.Stats()
	fmt.Printf("Operation counters:\n")
	fmt.Printf("  init:        %d\n", stats.Init)
	fmt.Printf("  led_set:     %d\n", stats.LEDSet)
	fmt.Printf("  button_read: %d\n", stats.ButtonRead)
	fmt.Printf("  power_query: %d\n", stats.PowerQuery)
	fmt.Printf("  wake:        %d\n", stats.Wake)
}

// runDemo walks the LED through every valid state, queries the sensors
// and prints the final counters.
func runDemo(backend platform.Platform) {
	fmt.Println("Running platform demo...")

	for state := platform.LEDOff; state <= platform.LEDError; state++ {
		if err := backend.SetLEDState(state); err != nil {
			log.Printf("LED %s failed: %v", state, err)
			continue
		}
		color := platform.ColorFor(state)
		fmt.Printf("  LED %-16s r=%-3d g=%-3d b=%-3d\n", state, color.R, color.G, color.B)
		time.Sleep(200 * time.Millisecond)
	}

	showButton(backend)
	showPower(backend)
	sendWake(backend)
	resetPlatform(backend)
	showStats(backend)

	fmt.Println("Demo complete")
}

func printLastError(backend platform.Platform) {
	if msg, ok := backend.LastError(); ok {
		fmt.Printf("Last error: %s\n", msg)
	}
}
