package version

import "fmt"

// Semantic version components.
const (
	Major = 1
	Minor = 2
	Patch = 0
)

// ServiceName identifies the scanner in health and info responses.
const ServiceName = "sivic-scanner"

// Version returns the semantic version string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// GetVersion returns the full service+version string.
func GetVersion() string {
	return fmt.Sprintf("%s v%s", ServiceName, Version())
}
