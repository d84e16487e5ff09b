// Package flagx lets several config layers share os.Args: each layer keeps
// only the flags it owns and parses them with its own FlagSet, so unknown
// flags from another layer never abort parsing.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags,
// keeping the order in which they appear.
//
// Both "-f value" and "-f=value" (or "--flag=value") forms are recognised.
// A separate value is only consumed when it does not itself start with '-'.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if allowed[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			filtered = append(filtered, args[i])
		}
	}
	return filtered
}

// ConfigFileFlag extracts the JSON config path passed as -c or -config from
// args. Returns "" when neither is present; the last occurrence wins.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

// JsonConfigFlags is ConfigFileFlag applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigFileFlag(os.Args[1:])
}
