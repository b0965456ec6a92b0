//go:build linux

package governor

import (
	"golang.org/x/sys/unix"
)

func totalMemoryGB() float64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		log.Debug().Err(err).Msg("sysinfo unavailable")
		return 0
	}
	total := uint64(info.Totalram) * uint64(info.Unit)
	return float64(total) / (1 << 30)
}
