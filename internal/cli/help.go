// ABOUTME: Help page listing every command with its flags
// ABOUTME: Printed by help/info, by --help on any command, and when no command is given

package cli

import (
	"strings"

	"github.com/mauromedda/kjspkg-go/internal/ui"
)

var usage = []string{
	"kjspkg install/download [pkgname1] [pkgname2] [--quiet/--skipmissing] [--update] - installs packages",
	"kjspkg remove/uninstall [pkgname1] [pkgname2] [--quiet/--skipmissing] - removes packages",
	"kjspkg update [pkgname1] [pkgname2] [--quiet/--skipmissing] - updates packages",
	"",
	"kjspkg list [--count] [pattern...] - lists packages (or outputs the count of them)",
	"kjspkg pkg [package...] - shows info about packages",
	"",
	`kjspkg init [--override/--quiet] [--version "<version>"] [--modloader "<modloader>"] - inits a new project (will be run by default)`,
	"kjspkg uninit [--confirm] - removes all packages and the project",
	"",
	"kjspkg help/info - shows this message",
	"",
	"Global flags: --help, --verbose",
}

func helpText() string {
	var b strings.Builder
	b.WriteString("\n" + ui.Bold("Commands:") + "\n\n")
	b.WriteString(strings.Join(usage, "\n"))
	b.WriteString("\n\n")
	return b.String()
}
