package capture

import (
	"regexp"
	"strings"
)

// Devices holds the enumerated capture inputs, each list ordered as the tool
// reported them.
type Devices struct {
	Displays    []string `json:"displays"`
	AudioInputs []string `json:"audioInputs"`
}

// deviceEntry matches the tool's per-device lines, which carry a bracketed
// numeric index followed by the device name. Section banners and other
// diagnostics have no such index and fall through.
var deviceEntry = regexp.MustCompile(`\[\s*(\d+)\s*\]\s*(\S.*)$`)

// classifyDeviceLines splits the enumeration output into displays and audio
// inputs. Classification is a case-insensitive "audio" substring check on the
// device name; the output format is platform specific free text, so ambiguous
// names may land in the wrong bucket, which callers tolerate.
func classifyDeviceLines(text string) Devices {
	var devices Devices
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, "devices:") {
			continue
		}
		match := deviceEntry.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[2])
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "audio") {
			devices.AudioInputs = append(devices.AudioInputs, name)
		} else {
			devices.Displays = append(devices.Displays, name)
		}
	}
	return devices
}
