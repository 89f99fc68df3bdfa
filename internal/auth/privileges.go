package auth

import (
	"os/user"
)

// isElevated is swapped out in tests
var isElevated = platformElevated

// IsElevated reports whether the process runs as root or as an elevated
// administrator. Some services only reveal their configuration to
// privileged callers.
func IsElevated() bool {
	return isElevated()
}

// PrivilegeHint returns a short note for the operator when the process is
// not elevated, or "" when it is.
func PrivilegeHint() string {
	if IsElevated() {
		return ""
	}
	name := "current user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return "running as " + name + " without elevated privileges; some service details may be unavailable"
}
