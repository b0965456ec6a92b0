//go:build !linux

package governor

func totalMemoryGB() float64 {
	return 0
}
