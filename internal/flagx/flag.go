// Package flagx splits a command line into the flags a FlagSet should parse
// and the positional command that follows, so configuration flags may appear
// before or after the command.
package flagx

import (
	"flag"
	"strings"
)

// Partition splits args into the listed flags with their values and
// everything else, keeping the input order in both results.
//
// Flags are recognized as "-f value" and "-f=value". A flag in valueFlags
// takes the next argument as its value unless that argument starts with '-';
// a flag in boolFlags never does. Unlisted flags end up in rest.
func Partition(args, valueFlags, boolFlags []string) (flags, rest []string) {
	takesValue := make(map[string]bool, len(valueFlags)+len(boolFlags))
	for _, f := range valueFlags {
		takesValue[f] = true
	}
	for _, f := range boolFlags {
		takesValue[f] = false
	}

	flags = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			rest = append(rest, arg)
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		withValue, known := takesValue[name]
		if !known {
			rest = append(rest, arg)
			continue
		}

		flags = append(flags, arg)
		if withValue && !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			flags = append(flags, args[i+1])
			i++
		}
	}
	return flags, rest
}

// FilterArgs returns only allowedFlags and their values, ready for
// flag.FlagSet.Parse.
func FilterArgs(args []string, allowedFlags []string) []string {
	flags, _ := Partition(args, allowedFlags, nil)
	return flags
}

// StripArgs returns args without the listed flags and their values: the
// command and its positional arguments.
func StripArgs(args []string, valueFlags []string, boolFlags []string) []string {
	_, rest := Partition(args, valueFlags, boolFlags)
	return rest
}

// JsonConfigFlags returns the configuration file named by -c or -config, or
// "" when neither is given. The last occurrence wins.
func JsonConfigFlags(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
