//go:build windows

package fs

import (
	"golang.org/x/sys/windows"
)

// fileAttributes reads the attributes of fullPath, retrying with the bare
// name when the joined path does not resolve.
func fileAttributes(fullPath, name string) (uint32, bool) {
	for _, target := range []string{fullPath, name} {
		if target == "" {
			continue
		}
		ptr, err := windows.UTF16PtrFromString(target)
		if err != nil {
			continue
		}
		if attrs, err := windows.GetFileAttributes(ptr); err == nil {
			return attrs, true
		}
	}
	return 0, false
}

// IsHidden reports whether the entry carries the hidden attribute. A leading
// dot counts when the attributes cannot be read.
func IsHidden(fullPath, name string) bool {
	attrs, ok := fileAttributes(fullPath, name)
	if !ok {
		return dotName(name)
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// ShouldHideFromListing drops system reparse points such as the legacy
// "Application Data" junctions, which loop back into their parent.
func ShouldHideFromListing(fullPath, name string) bool {
	attrs, ok := fileAttributes(fullPath, name)
	if !ok {
		return false
	}
	const mask = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_REPARSE_POINT
	return attrs&mask == mask
}
