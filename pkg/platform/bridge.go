// SPDX-License-Identifier: MPL-2.0

package platform

const (
	// DefaultBridgeCommand is the WSL launcher executable.
	DefaultBridgeCommand = "wsl"
	// DefaultBridgeDistribution is the WSL distribution nmap is expected in.
	DefaultBridgeDistribution = "kali-linux"

	// distributionFlag selects the target distribution for wsl.exe.
	distributionFlag = "-d"
	// execFlag makes wsl.exe run the command directly instead of handing the
	// command line to the distribution's default shell.
	execFlag = "--exec"
	// locateCommand is run inside the bridge to check that a tool exists.
	locateCommand = "which"
)

// Bridge describes a compatibility layer that runs Linux binaries on a
// non-Linux host.
type Bridge struct {
	// Command is the bridge launcher looked up on the search path.
	Command string
	// Distribution selects the Linux distribution inside the bridge.
	// An empty value targets the bridge's default distribution.
	Distribution string
}

// DefaultBridge returns the WSL bridge targeting the Kali distribution.
func DefaultBridge() Bridge {
	return Bridge{
		Command:      DefaultBridgeCommand,
		Distribution: DefaultBridgeDistribution,
	}
}

// BridgeFor returns the bridge available on the given profile and whether
// one exists at all. Only Windows hosts have a bridge.
func BridgeFor(p Profile) (Bridge, bool) {
	if p == NativeWindows {
		return DefaultBridge(), true
	}
	return Bridge{}, false
}

// Args returns the arguments placed between the bridge command and the
// routed executable, e.g. ["-d", "kali-linux", "--exec"]. The trailing
// --exec keeps every following token a discrete argv entry inside Linux.
// This is a pure function, directly testable without a real bridge.
func (b Bridge) Args() []string {
	if b.Distribution == "" {
		return []string{execFlag}
	}
	return []string{distributionFlag, b.Distribution, execFlag}
}

// Prefix returns the full invocation prefix that runs tool through the
// bridge: command, distribution selector, then the tool itself.
func (b Bridge) Prefix(tool string) []string {
	prefix := make([]string, 0, 5)
	prefix = append(prefix, b.Command)
	prefix = append(prefix, b.Args()...)
	return append(prefix, tool)
}

// LocateArgv returns the argv of the lightweight existence check that asks
// the bridge whether tool is installed inside it.
func (b Bridge) LocateArgv(tool string) []string {
	return append(b.Prefix(locateCommand), tool)
}
