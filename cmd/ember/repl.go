package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"ember/core-go/pkg/runtime"
)

const (
	historyFile = ".ember_history"
	promptMain  = "ember> "
)

func runRepl(rt *runtime.Runtime, args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "repl takes no arguments")
		return 1
	}
	fmt.Println(cliToolVersion + " (type :quit to exit)")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeCommand)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(rt)
	for lineNo := 1; ; lineNo++ {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			continue
		case ":quit", ":q":
			return 0
		case ":live":
			fmt.Println(rt.Heap.Live())
			continue
		}
		ln.AppendHistory(line)
		out, err := s.eval(trimmed)
		if err != nil {
			fmt.Fprintln(os.Stderr, s.report(err, "repl", lineNo))
			continue
		}
		fmt.Println(out)
	}
}

func completeCommand(line string) []string {
	var out []string
	for name := range commands {
		if strings.HasPrefix(name, line) {
			out = append(out, name+" ")
		}
	}
	return out
}
