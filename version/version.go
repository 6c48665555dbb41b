// Package version holds the build version, set with -ldflags at release time.
package version

// Version of the gridsnake binary.
var Version = "dev"
