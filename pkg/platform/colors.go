package platform

// RGB is a raw LED color triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ledColors is the fixed state-to-color table. console-off shares red
// with error and console-on shares green with vpn-connected; the palette
// matches what shipped on deployed units and changing it is a product
// decision, not a code fix.
var ledColors = map[LEDState]RGB{
	LEDOff:           {0, 0, 0},
	LEDVPNConnecting: {0, 0, 255},
	LEDVPNConnected:  {0, 255, 0},
	LEDQuerying:      {255, 255, 0},
	LEDConsoleOff:    {255, 0, 0},
	LEDConsoleOn:     {0, 255, 0},
	LEDWaking:        {128, 0, 255},
	LEDError:         {255, 0, 0},
}

// ColorFor returns the RGB triple for a LED state. States without a
// table entry map to black.
func ColorFor(state LEDState) RGB {
	if c, ok := ledColors[state]; ok {
		return c
	}
	return RGB{}
}
