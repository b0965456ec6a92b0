package governor

import (
	"runtime"
)

const (
	lowCores       = 4
	highCores      = 8
	lowMemoryGB    = 2
	fallbackCores  = 2
	fallbackMemory = 4

	// compactColumns marks terminals narrow enough to be treated like a phone.
	compactColumns = 80
)

// DeviceSignals are the inputs for the initial tier. Zero values mean unknown.
type DeviceSignals struct {
	Mobile   bool    `json:"mobile"`
	Cores    int     `json:"cores"`
	MemoryGB float64 `json:"memory_gb"`
}

// InitialTier picks the starting tier: constrained phones get Low, phones or
// modest machines get Medium, everything else High.
func InitialTier(d DeviceSignals) Tier {
	cores := d.Cores
	if cores <= 0 {
		cores = fallbackCores
	}
	memory := d.MemoryGB
	if memory <= 0 {
		memory = fallbackMemory
	}

	if d.Mobile && (cores <= lowCores || memory <= lowMemoryGB) {
		return Low
	}
	if d.Mobile || cores <= highCores {
		return Medium
	}
	return High
}

// DetectDevice reads the signals of the machine we run on. columns is the
// terminal width, or 0 when no terminal is attached.
func DetectDevice(columns int) DeviceSignals {
	mobile := runtime.GOOS == "android" || runtime.GOOS == "ios"
	if columns > 0 && columns < compactColumns {
		mobile = true
	}

	return DeviceSignals{
		Mobile:   mobile,
		Cores:    runtime.NumCPU(),
		MemoryGB: totalMemoryGB(),
	}
}
