// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ToolNotFoundId Id = iota + 1
	BridgeUnavailableId
	ScanTimeoutId
	StartFailureId
	ConfigLoadFailedId
	InvalidArgumentsId
)

type Id int

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the issue, must never be empty
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal Markdown using the given glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# nmap was not found!

nmapw looks for nmap in the following places, in order:
1. **Windows only:** inside the WSL distribution (default ` + "`kali-linux`" + `)
2. On your native search path (` + "`PATH`" + `)

## Install nmap
- Debian, Ubuntu, Kali:
~~~
$ sudo apt install nmap
~~~
- Fedora, RHEL:
~~~
$ sudo dnf install nmap
~~~
- Arch:
~~~
$ sudo pacman -S nmap
~~~
- macOS:
~~~
$ brew install nmap
~~~
- Windows (native):
~~~
> winget install Insecure.Nmap
~~~
- Windows (through WSL):
~~~
> wsl --install -d kali-linux
> wsl -d kali-linux sudo apt install nmap
~~~`,
		docLinks: []HttpLink{"https://nmap.org/book/install.html"},
	}

	bridgeUnavailableIssue = &Issue{
		id: BridgeUnavailableId,
		mdMsg: `
# The WSL bridge did not answer!

WSL is installed, but asking it whether nmap exists failed or took too long.

## Things you can try:
- List the installed distributions and check the configured name matches:
~~~
> wsl -l -v
~~~
- Start the distribution once by hand, first boots can be slow:
~~~
> wsl -d kali-linux
~~~
- Point nmapw at another distribution with ` + "`NMAPW_BRIDGE_DISTRIBUTION`" + `.`,
		docLinks: []HttpLink{"https://learn.microsoft.com/windows/wsl/basic-commands"},
	}

	scanTimeoutIssue = &Issue{
		id: ScanTimeoutId,
		mdMsg: `
# The scan timed out!

nmap was still running when the time limit expired, so it was stopped.
Output captured before the stop is shown above.

## Things you can try:
- Narrow the target range or the port list (` + "`-p`, `--top-ports`" + `)
- Use a faster timing template (` + "`-T4`" + `)
- Raise the limit with ` + "`NMAPW_SCAN_TIMEOUT`" + ` (for example ` + "`30m`" + `)`,
		docLinks: []HttpLink{"https://nmap.org/book/performance.html"},
	}

	startFailureIssue = &Issue{
		id: StartFailureId,
		mdMsg: `
# nmap could not be started!

nmap was found, but the operating system refused to launch it.

## Things you can try:
- Check the executable permissions of nmap
- Make sure nmap was not uninstalled or moved while nmapw was running
- Run the printed command by hand to see the full system error`,
		docLinks: []HttpLink{"https://nmap.org/book/install.html"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

The nmapw configuration file could not be read or does not match the schema.

## Things you can try:
- Check the file for CUE syntax errors
- Remove unknown keys, the schema is closed
- Point ` + "`NMAPW_CONFIG`" + ` at a different file, or unset it to use defaults`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidArgumentsIssue = &Issue{
		id: InvalidArgumentsId,
		mdMsg: `
# The argument string could not be split!

A single quoted argument is split into words with shell quoting rules,
but nothing is expanded: variables, command substitutions and globs are
rejected.

## Things you can try:
- Pass the nmap arguments as separate words:
~~~
$ nmapw -sV -p 22,80 scanme.nmap.org
~~~
- Expand variables in your own shell before calling nmapw`,
		docLinks: []HttpLink{"https://nmap.org/book/man-briefoptions.html"},
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():      toolNotFoundIssue,
		bridgeUnavailableIssue.Id(): bridgeUnavailableIssue,
		scanTimeoutIssue.Id():       scanTimeoutIssue,
		startFailureIssue.Id():      startFailureIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		invalidArgumentsIssue.Id():  invalidArgumentsIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
