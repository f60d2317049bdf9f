// Package keymap provides per-OS virtual key-code tables and key name
// normalization for simulated input.
package keymap

import (
	"runtime"
	"strings"
)

// Table maps canonical key names to OS virtual key codes.
type Table map[string]int

// Windows returns the Windows virtual key-code table.
func Windows() Table {
	return windowsKeys
}

// Darwin returns the macOS virtual key-code table.
func Darwin() Table {
	return darwinKeys
}

// ForOS returns the key table for the given GOOS value, or nil if the
// platform has no table.
func ForOS(goos string) Table {
	switch goos {
	case "windows":
		return windowsKeys
	case "darwin":
		return darwinKeys
	default:
		return nil
	}
}

// Native returns the key table for the current platform. On platforms
// without native key injection it falls back to the Windows table so key
// names still resolve; the simulator is a no-op there anyway.
func Native() Table {
	if t := ForOS(runtime.GOOS); t != nil {
		return t
	}
	return windowsKeys
}

// Normalize resolves a user-supplied key name against the table,
// ignoring case and surrounding whitespace. It returns the table's
// canonical spelling, or "" and false for empty or unknown names.
func (t Table) Normalize(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	upper := strings.ToUpper(trimmed)
	for canonical := range t {
		if strings.ToUpper(canonical) == upper {
			return canonical, true
		}
	}
	return "", false
}

// Code looks up the virtual key code for a canonical key name.
func (t Table) Code(name string) (int, bool) {
	code, ok := t[name]
	return code, ok
}

// Names returns all canonical key names in the table.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return names
}

var windowsKeys = Table{
	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,
	"A": 0x41, "B": 0x42, "C": 0x43, "D": 0x44, "E": 0x45,
	"F": 0x46, "G": 0x47, "H": 0x48, "I": 0x49, "J": 0x4A,
	"K": 0x4B, "L": 0x4C, "M": 0x4D, "N": 0x4E, "O": 0x4F,
	"P": 0x50, "Q": 0x51, "R": 0x52, "S": 0x53, "T": 0x54,
	"U": 0x55, "V": 0x56, "W": 0x57, "X": 0x58, "Y": 0x59,
	"Z": 0x5A,
	"=": 0xBB, "-": 0xBD, "[": 0xDB, "]": 0xDD, "\\": 0xDC,
	",": 0xBC, ".": 0xBE, "/": 0xBF, ";": 0xBA, "'": 0xDE,
	"`": 0xC0,
	"F1": 0x70, "F2": 0x71, "F3": 0x72, "F4": 0x73,
	"F5": 0x74, "F6": 0x75, "F7": 0x76, "F8": 0x77,
	"F9": 0x78, "F10": 0x79, "F11": 0x7A, "F12": 0x7B,
	"Space": 0x20, "Tab": 0x09, "Backspace": 0x08, "Esc": 0x1B,
	"Left": 0x25, "Up": 0x26, "Right": 0x27, "Down": 0x28,
	"Insert": 0x2D, "Delete": 0x2E, "Home": 0x24, "End": 0x23,
	"Pageup": 0x21, "Pagedown": 0x22,
	"Shift": 0x10, "Ctrl": 0x11, "Alt": 0x12,
	"VolumeUp": 0xAF, "VolumeDown": 0xAE, "Mute": 0xAD,
}

var darwinKeys = Table{
	"1": 18, "2": 19, "3": 20, "4": 21, "5": 23,
	"6": 22, "7": 26, "8": 28, "9": 25, "0": 29,
	"A": 0, "B": 11, "C": 8, "D": 2, "E": 14,
	"F": 3, "G": 5, "H": 4, "I": 34, "J": 38,
	"K": 40, "L": 37, "M": 46, "N": 45, "O": 31,
	"P": 35, "Q": 12, "R": 15, "S": 1, "T": 17,
	"U": 32, "V": 9, "W": 13, "X": 7, "Y": 16,
	"Z": 6,
	"=": 24, "-": 27, "[": 33, "]": 30, "\\": 42,
	",": 43, ".": 47, "/": 44, ";": 41, "'": 39,
	"`": 50,
	"F1": 122, "F2": 120, "F3": 99, "F4": 118,
	"F5": 96, "F6": 97, "F7": 98, "F8": 100,
	"F9": 101, "F10": 109, "F11": 103, "F12": 111,
	"Space": 49, "Control": 59, "Command": 55, "Option": 58,
}
