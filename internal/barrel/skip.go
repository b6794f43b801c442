package barrel

import "strings"

const hiddenNamePrefix = "."

var (
	defaultSkippedFolders  = []string{"l10n"}
	defaultSkippedSuffixes = []string{".g.dart"}
)

// SkipFilter decides which directory entries never take part in generation.
type SkipFilter struct {
	Folders  []string
	Suffixes []string
}

// DefaultSkipFilter returns the built-in skip configuration.
func DefaultSkipFilter() SkipFilter {
	return SkipFilter{
		Folders:  append([]string(nil), defaultSkippedFolders...),
		Suffixes: append([]string(nil), defaultSkippedSuffixes...),
	}
}

// ShouldSkip reports whether name is hidden, ends with a skipped suffix, or is a skipped folder name.
func (filter SkipFilter) ShouldSkip(name string) bool {
	if strings.HasPrefix(name, hiddenNamePrefix) {
		return true
	}
	for _, suffix := range filter.Suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, folder := range filter.Folders {
		if name == folder {
			return true
		}
	}
	return false
}

// ShouldSkip applies the default skip configuration to name.
func ShouldSkip(name string) bool {
	return DefaultSkipFilter().ShouldSkip(name)
}
