// Package version carries the build version of the kvrest client and CLI.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/kvrest/version.Version=1.0.0" ./cmd/kvrest
package version
