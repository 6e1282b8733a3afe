package main

import (
	"fmt"
	"os"
	"strings"

	"ember/core-go/pkg/collections"
	"ember/core-go/pkg/config"
	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

const cliToolVersion = "ember 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	cfgPath, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) == 0 {
		printUsage()
		return 1
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	}

	rt, err := newRuntime(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	switch remaining[0] {
	case "repl":
		return runRepl(rt, remaining[1:])
	case "eval":
		return runEval(rt, remaining[1:])
	case "fmt":
		return runFormat(rt, remaining[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", remaining[0])
		printUsage()
		return 1
	}
}

func parseGlobalFlags(args []string) (string, []string, error) {
	cfgPath := os.Getenv("EMBER_CONFIG")
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--config expects a path")
			}
			cfgPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			cfgPath = strings.TrimPrefix(arg, "--config=")
			if cfgPath == "" {
				return "", nil, fmt.Errorf("--config expects a path")
			}
		default:
			remaining = append(remaining, arg)
		}
	}
	return cfgPath, remaining, nil
}

// newRuntime builds a runtime from the config at path, or from the defaults
// when path is empty. Logs go to stderr.
func newRuntime(path string) (*runtime.Runtime, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	opts, err := cfg.Options(os.Stderr)
	if err != nil {
		return nil, err
	}
	rt := runtime.New(opts)
	numeric.Install(rt)
	collections.Install(rt)
	return rt, nil
}

func runEval(rt *runtime.Runtime, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "eval expects an expression")
		return 1
	}
	s := newSession(rt)
	out, err := s.eval(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, s.report(err, "<args>", 1))
		return 1
	}
	fmt.Fprintln(os.Stdout, out)
	return 0
}

func runFormat(rt *runtime.Runtime, args []string) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "fmt expects <value> [spec]")
		return 1
	}
	s := newSession(rt)
	v, err := s.literal(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, s.report(err, "<args>", 1))
		return 1
	}
	defer rt.Release(v)
	spec := ""
	if len(args) == 2 {
		spec = args[1]
	}
	out, err := numeric.Format(rt, v, spec, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, s.report(err, "<args>", 1))
		return 1
	}
	fmt.Fprintln(os.Stdout, out)
	return 0
}
