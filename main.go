package main

import (
	"fmt"
	"os"

	"github.com/launchdarkly/mock-ui-environment/checks"
	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/framework"

	"github.com/fatih/color"
)

const programName = "uimock-check"

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	if params.noColor {
		color.NoColor = true
	}

	project, err := config.Resolve(params.dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Project configuration error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking %s (%s)\n\n", project.ModulePath, project.Root)
	framework.PrintFilterDescription(os.Stdout, params.filters)

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := checks.RunSuite(project, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run the failed checks again:")
		fmt.Printf("  %s\n", params.rerunCommand(programName, results.Failures))
		os.Exit(1)
	}
}
