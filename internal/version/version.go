// Package version reports muxr's build version together with the wire
// protocol version its binary was built against (internal/protocol's
// Grid/Event/frame encoding), so a client and server built at different
// times can be told apart at a glance rather than failing opaquely the
// first time they try to talk to each other.
package version

import (
	"fmt"
	"strings"

	"muxr/internal/protocol"
)

// Version is the current build version of muxr.
const Version = "0.1.0"

// WireVersion is the protocol.WireVersion this binary was built against.
const WireVersion = protocol.WireVersion

// GitRef is injected at build time for dev builds (e.g. via -ldflags -X).
var GitRef = "unknown"

// ReleaseBuild is injected at build time. When true, DisplayVersion omits git ref.
var ReleaseBuild = "false"

// DisplayVersion returns the user-facing build version, always including
// the wire protocol version since that's what actually determines whether
// a muxr and muxrd binary can talk to each other:
//   - release: v<semver>+wire<N>
//   - dev:     v<semver>+wire<N>-<gitref>
func DisplayVersion() string {
	base := fmt.Sprintf("v%s+wire%d", Version, WireVersion)
	if isReleaseBuild() {
		return base
	}
	return base + "-" + normalizeRef(GitRef)
}

// WireCompatible reports whether a peer advertising otherWireVersion can
// interoperate with this binary. The wire format has no forward/backward
// compatibility guarantees across versions, so this is exact equality.
func WireCompatible(otherWireVersion int) bool {
	return otherWireVersion == WireVersion
}

func isReleaseBuild() bool {
	switch strings.ToLower(strings.TrimSpace(ReleaseBuild)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func normalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "unknown"
	}
	return ref
}
