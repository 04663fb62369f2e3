// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"slices"
	"testing"
)

func TestBridgeFor(t *testing.T) {
	t.Parallel()

	b, ok := BridgeFor(NativeWindows)
	if !ok {
		t.Fatal("BridgeFor(NativeWindows) reported no bridge")
	}
	if b != DefaultBridge() {
		t.Errorf("BridgeFor(NativeWindows) = %+v, want %+v", b, DefaultBridge())
	}

	if _, ok := BridgeFor(NativeUnix); ok {
		t.Error("BridgeFor(NativeUnix) reported a bridge, want none")
	}
}

func TestBridge_Prefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bridge   Bridge
		expected []string
	}{
		{
			name:     "default distribution",
			bridge:   DefaultBridge(),
			expected: []string{"wsl", "-d", "kali-linux", "--exec", "nmap"},
		},
		{
			name:     "custom distribution",
			bridge:   Bridge{Command: "wsl.exe", Distribution: "Ubuntu-22.04"},
			expected: []string{"wsl.exe", "-d", "Ubuntu-22.04", "--exec", "nmap"},
		},
		{
			name:     "bridge default distribution",
			bridge:   Bridge{Command: "wsl"},
			expected: []string{"wsl", "--exec", "nmap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.bridge.Prefix("nmap"); !slices.Equal(got, tt.expected) {
				t.Errorf("Prefix() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBridge_LocateArgv(t *testing.T) {
	t.Parallel()

	got := DefaultBridge().LocateArgv("nmap")
	want := []string{"wsl", "-d", "kali-linux", "--exec", "which", "nmap"}
	if !slices.Equal(got, want) {
		t.Errorf("LocateArgv() = %v, want %v", got, want)
	}
}

func TestBridge_PrefixDoesNotAlias(t *testing.T) {
	t.Parallel()

	b := DefaultBridge()
	first := b.Prefix("nmap")
	first[0] = "mutated"
	if second := b.Prefix("nmap"); second[0] != "wsl" {
		t.Errorf("Prefix() shares backing storage across calls: %v", second)
	}
}

func TestBridge_ArgsRunWithoutShell(t *testing.T) {
	t.Parallel()

	for _, b := range []Bridge{DefaultBridge(), {Command: "wsl"}} {
		args := b.Args()
		if len(args) == 0 || args[len(args)-1] != "--exec" {
			t.Errorf("Args() = %v, want it to end with --exec so wsl skips the Linux shell", args)
		}
	}
}
