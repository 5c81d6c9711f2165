package rdesc

import "fmt"

// Well-known usage pages, per the USB HID Usage Tables. Only the pages
// and usages a CLI dump is likely to actually see are named here;
// anything else falls back to its numeric form.
const (
	UsagePageGenericDesktop uint16 = 0x01
	UsagePageSimulation     uint16 = 0x02
	UsagePageButton         uint16 = 0x09
	UsagePageConsumer       uint16 = 0x0C
)

var usagePageNames = map[uint16]string{
	UsagePageGenericDesktop: "Generic Desktop",
	UsagePageSimulation:     "Simulation Controls",
	0x03:                    "VR Controls",
	0x04:                    "Sport Controls",
	0x05:                    "Game Controls",
	0x06:                    "Generic Device Controls",
	0x07:                    "Keyboard/Keypad",
	UsagePageButton:         "Button",
	0x0A:                    "Ordinal",
	0x0B:                    "Telephony",
	UsagePageConsumer:       "Consumer",
	0x0D:                    "Digitizer",
	0x14:                    "Alphanumeric Display",
	0x80:                    "Monitor",
	0x81:                    "Monitor Enumerated Values",
	0x82:                    "VESA Virtual Controls",
	0x84:                    "Power Device",
	0x85:                    "Battery System",
}

var genericDesktopUsageNames = map[uint16]string{
	0x01: "Pointer",
	0x02: "Mouse",
	0x04: "Joystick",
	0x05: "Game Pad",
	0x06: "Keyboard",
	0x07: "Keypad",
	0x08: "Multi-axis Controller",
	0x30: "X",
	0x31: "Y",
	0x32: "Z",
	0x33: "Rx",
	0x34: "Ry",
	0x35: "Rz",
	0x38: "Wheel",
	0x39: "Hat Switch",
	0x3B: "Byte Count",
	0x3C: "Motion Wakeup",
	0x80: "System Control",
	0x81: "System Power Down",
	0x82: "System Sleep",
	0x83: "System Wake Up",
}

// UsagePageName returns the human-readable name of a usage page, or its
// numeric form if unknown.
func UsagePageName(page uint16) string {
	if name, ok := usagePageNames[page]; ok {
		return name
	}
	return fmt.Sprintf("Usage Page 0x%02X", page)
}

// UsageName returns the human-readable name of a usage within a page,
// currently only populated for the Generic Desktop page, or its numeric
// form otherwise.
func UsageName(page, usage uint16) string {
	if page == UsagePageGenericDesktop {
		if name, ok := genericDesktopUsageNames[usage]; ok {
			return name
		}
	}
	return fmt.Sprintf("Usage 0x%02X", usage)
}
