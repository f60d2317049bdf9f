//go:build windows

package input

import "syscall"

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	procKeybdEvent   = user32.NewProc("keybd_event")
	procGetAsyncKey  = user32.NewProc("GetAsyncKeyState")
	keyEventfKeyUp   = uintptr(0x0002)
	modifierKeyCodes = map[string]uintptr{
		"Alt":   0x12,
		"Ctrl":  0x11,
		"Shift": 0x10,
	}
)

// WindowsSimulator injects keys through the user32 keybd_event call.
type WindowsSimulator struct{}

func (WindowsSimulator) Press(code int) error {
	procKeybdEvent.Call(uintptr(code), 0, 0, 0)
	return nil
}

func (WindowsSimulator) Release(code int) error {
	procKeybdEvent.Call(uintptr(code), 0, keyEventfKeyUp, 0)
	return nil
}

// WindowsModifiers polls modifier state via GetAsyncKeyState.
type WindowsModifiers struct{}

func (WindowsModifiers) Held(name string) bool {
	code, ok := modifierKeyCodes[name]
	if !ok {
		return false
	}
	state, _, _ := procGetAsyncKey.Call(code)
	return state&0x8000 != 0
}

// NewNativeSimulator returns the platform key simulator.
func NewNativeSimulator() Simulator { return WindowsSimulator{} }

// NewNativeModifiers returns the platform modifier-state reader.
func NewNativeModifiers() ModifierState { return WindowsModifiers{} }
