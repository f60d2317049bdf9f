//go:build windows

package process

import (
	"syscall"
	"unsafe"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
)

// WindowsChecker resolves the foreground window's owning process.
type WindowsChecker struct{}

func (WindowsChecker) IsForeground(pid int) bool {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return false
	}
	var foregroundPID uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&foregroundPID)))
	return int(foregroundPID) == pid
}

// NewNativeChecker returns the platform foreground checker.
func NewNativeChecker() Checker { return WindowsChecker{} }
