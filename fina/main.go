// Command fina is a personal finance assistant: a ledger, budgets and
// an analysis agent in one binary.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/nroux/finagent/cmd"
)

func main() {
	// A .env file is a convenient place for GEMINI_API_KEY; absence is fine.
	godotenv.Load()

	setupCompletion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// setupCompletion installs shell completion for subcommand names and
// global flags. It exits the process when invoked by the shell.
func setupCompletion() {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	root := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"memory-dir":  predict.Dirs("*"),
			"store":       predict.Set{"file", "sqlite"},
			"session":     predict.Nothing,
			"model":       predict.Nothing,
			"offline":     predict.Nothing,
			"v":           predict.Nothing,
		},
	}
	root.Complete(path.Base(os.Args[0]))
}
