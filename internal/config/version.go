package config

// Build information, overwritten at startup from linker flags
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the build information printed by the version command
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
