package main

import (
	"flag"
	"fmt"
	"os"

	"imunetrackE2E/internal/framework"
)

type commandParams struct {
	filters  framework.RegexFilters
	debug    bool
	debugAll bool
	list     bool
	history  int
	show     string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.BoolVar(&c.debug, "debug", false, "print debug output for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "print debug output for all scenarios")
	fs.BoolVar(&c.list, "list", false, "list scenario names and exit")
	fs.IntVar(&c.history, "history", 0, "print the last N stored runs with their failed scenarios and exit")
	fs.StringVar(&c.show, "show", "", "print all scenario results of a stored run by id and exit")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if c.history < 0 {
		fmt.Fprintln(os.Stderr, "-history must not be negative")
		return false
	}
	return true
}
