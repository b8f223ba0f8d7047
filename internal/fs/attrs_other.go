//go:build !windows

package fs

// IsHidden reports dot-files as hidden.
func IsHidden(_, name string) bool {
	return dotName(name)
}

// ShouldHideFromListing never drops entries outside Windows.
func ShouldHideFromListing(_, _ string) bool {
	return false
}
