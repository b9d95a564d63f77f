// ABOUTME: Flag parsing that accepts flags anywhere among positional arguments
// ABOUTME: Every command FlagSet also carries the global --help and --verbose flags

package cli

import (
	"flag"
	"io"
	"strings"
)

// globalFlags are accepted by every command.
type globalFlags struct {
	help    bool
	verbose bool
}

func newFlagSet(name string, g *globalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&g.help, "help", false, "show help")
	fs.BoolVar(&g.verbose, "verbose", false, "log every lifecycle step")
	return fs
}

// parseInterspersed parses args with fs, collecting positional arguments
// that appear before, between, or after flags. A lone "--" ends flag
// parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// flag.Parse consumed a terminating "--" if the previous token was one.
		if consumedTerminator(args, rest) {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func consumedTerminator(args, rest []string) bool {
	i := len(args) - len(rest) - 1
	return i >= 0 && args[i] == "--"
}

// splitCommand returns the first positional token as the command name and
// the remaining arguments. Without one the command is "help".
func splitCommand(args []string) (string, []string) {
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			rest := make([]string, 0, len(args)-1)
			rest = append(rest, args[:i]...)
			rest = append(rest, args[i+1:]...)
			return strings.ToLower(a), rest
		}
	}
	return "help", args
}

// hasFlag reports whether a boolean flag appears before any "--".
func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-"+name || a == "--"+name || a == "--"+name+"=true" || a == "-"+name+"=true" {
			return true
		}
	}
	return false
}
