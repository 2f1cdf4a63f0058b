package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/barkit/barkit/config"
)

// CLISource loads configuration from command-line flags. Dots in a flag
// name express nesting: --bar.separator=" / " becomes
// {bar: {separator: " / "}}. Both --flag=value and --flag value work, and
// single-dash long flags are accepted. Values stay strings; the binder
// converts types.
//
// CLISource conventionally sits last in the source chain so flags override
// everything else.
type CLISource struct {
	// Args overrides os.Args[1:], mainly for tests.
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

// Load never fails; unparseable flags are ignored.
func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseFlags(normalizeArgs(args))
}

// Watch is not supported; arguments are static for the process.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func parseFlags(args []string) (map[string]any, error) {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Register every flag name we see so pflag accepts an arbitrary set.
	registered := make(map[string]bool)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := flagName(arg)
		if name == "" {
			continue
		}
		if !registered[name] {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
			registered[name] = true
		}
		// --flag value form consumes the next argument.
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed || flag.Value.String() == "" {
			return
		}
		segments := strings.Split(flag.Name, ".")
		if len(segments) == 0 {
			return
		}
		setNestedValue(result, segments, flag.Value.String())
	})

	return result, nil
}

// normalizeArgs rewrites single-dash long flags to double-dash for pflag.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := strings.TrimPrefix(arg, "-")
			if len(rest) > 1 && rest[0] != '=' {
				normalized[i] = "-" + arg
				continue
			}
		}
		normalized[i] = arg
	}
	return normalized
}

func flagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	if idx := strings.Index(arg, "="); idx != -1 {
		return arg[:idx]
	}
	return arg
}
