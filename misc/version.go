// Package misc holds build time program information.
package misc

// Set by linker: -X dxw/misc.version=... -X dxw/misc.gitHash=...
var (
	appName = "dxw"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name used for temporary files, logs and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns source revision program was built from.
func GetGitHash() string {
	return gitHash
}
