//go:build windows

package platform

// Default returns the implementation for the build platform.
func Default() Ops {
	return NewWindows()
}
