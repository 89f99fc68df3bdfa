//go:build !windows

package auth

import "os"

func platformElevated() bool {
	return os.Geteuid() == 0
}
