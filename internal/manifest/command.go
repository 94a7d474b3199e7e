package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/apparentlymart/go-shquot/shquot"
)

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Command accumulates the argument vector of a generated container command.
type Command struct {
	args []string
}

// NewCommand starts a command with the given program and leading arguments.
func NewCommand(args ...string) *Command {
	return &Command{args: append([]string(nil), args...)}
}

// Flag appends a bare --name flag.
func (c *Command) Flag(name string) *Command {
	c.args = append(c.args, "--"+name)
	return c
}

// FlagIf appends a bare --name flag when cond holds.
func (c *Command) FlagIf(cond bool, name string) *Command {
	if cond {
		return c.Flag(name)
	}
	return c
}

// Value appends --name followed by the formatted value.
func (c *Command) Value(name string, v any) *Command {
	c.args = append(c.args, "--"+name, FormatValue(v))
	return c
}

// Arg appends positional arguments.
func (c *Command) Arg(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// EngineArgs appends passthrough engine flags in key order. true becomes a
// bare flag, false is dropped and any other value becomes --key value.
func (c *Command) EngineArgs(args map[string]any) *Command {
	c.args = append(c.args, EngineArgFlags(args)...)
	return c
}

// Args returns a copy of the argument vector.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// String renders the command for a POSIX shell. Only arguments that need
// quoting are quoted.
func (c *Command) String() string {
	return ShellJoin(c.args)
}

// ShellJoin renders an argument vector as a POSIX shell command line.
func ShellJoin(args []string) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if shellSafe.MatchString(a) {
			parts = append(parts, a)
			continue
		}
		parts = append(parts, shquot.POSIXShell([]string{a}))
	}
	return strings.Join(parts, " ")
}

// EngineArgFlags renders passthrough engine arguments as CLI flags.
func EngineArgFlags(args map[string]any) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var flags []string
	for _, k := range keys {
		switch v := args[k].(type) {
		case bool:
			if v {
				flags = append(flags, "--"+k)
			}
		default:
			flags = append(flags, "--"+k, FormatValue(v))
		}
	}
	return flags
}

// FormatValue formats a scalar for use on a command line.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
