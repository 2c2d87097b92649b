// Package internal holds build-time metadata shared by the binaries.
package internal

// Version is the build version, overridden at build time with -ldflags.
var Version = "dev"
