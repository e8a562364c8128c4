// Package buildinfo contains build-time metadata separate from user configuration
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// UnknownValue is reported for metadata the build did not provide.
const UnknownValue = "unknown"

// Context contains build-time metadata that is not user-configurable.
// Version and BuildDate are injected with -ldflags at build time.
type Context struct {
	version   string
	buildDate string
}

// NewContext creates build metadata from the linker-injected values.
func NewContext(version, buildDate string) *Context {
	return &Context{version: version, buildDate: buildDate}
}

// Version returns the build version, falling back to the module version
// recorded by the Go toolchain.
func (c *Context) Version() string {
	if c != nil && c.version != "" {
		return c.version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return UnknownValue
}

// BuildDate returns when the binary was built.
func (c *Context) BuildDate() string {
	if c == nil || c.buildDate == "" {
		return UnknownValue
	}
	return c.buildDate
}

// String returns a one-line summary for version output.
func (c *Context) String() string {
	return fmt.Sprintf("tonecapture %s (built %s)", c.Version(), c.BuildDate())
}
