// Package misc holds build-time program identification.
package misc

// set by the linker: -X pdfdesigner/misc.version=... -X pdfdesigner/misc.gitHash=...
var (
	appName = "pdfd"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns name of the program, used for logger and temporary file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit the program was built from.
func GetGitHash() string {
	return gitHash
}
