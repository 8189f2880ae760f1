//go:build unix

package platform

// Default returns the implementation for the build platform.
func Default() Ops {
	return NewPOSIX()
}
