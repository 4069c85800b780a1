package build

// Set at link time with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const productName = "nps-explorer"

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// UserAgent identifies this build in outbound requests,
// e.g. "nps-explorer/1.0.0".
func UserAgent() string {
	if Version == "" {
		return productName
	}
	return productName + "/" + Version
}
