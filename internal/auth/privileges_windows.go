//go:build windows

package auth

import "golang.org/x/sys/windows"

func platformElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
