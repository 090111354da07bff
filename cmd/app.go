// Package cmd implements the CLI application for the finance agent.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/nroux/finagent"
	"github.com/nroux/finagent/gemini"
	"github.com/nroux/finagent/store"
)

// Commands lists every subcommand in registration order.
var Commands = []subcommands.Command{
	&addCmd{},
	&importCmd{},
	&txCmd{},
	&recategorizeCmd{},
	&fmtCmd{},
	&budgetCmd{},
	&planCmd{},
	&recommendCmd{},
	&detectCmd{},
	&analyzeCmd{},
	&adviseCmd{},
	&chatCmd{},
	&healthCmd{},
	&topicCmd{},
	&demoCmd{},
}

// Register registers all subcommands on the commander.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// Short lived CLI process, global flags are fine.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file (JSONL format)")
var memoryDir = flag.String("memory-dir", ".finagent", "Directory holding memory documents")
var storeKind = flag.String("store", "file", "Memory store backend (file, sqlite)")
var session = flag.String("session", "default", "Memory session name")
var modelName = flag.String("model", "", "Gemini model to use (default "+gemini.DefaultModel+")")
var offline = flag.Bool("offline", false, "Never call the model; degrade to deterministic answers")
var verbose = flag.Bool("v", false, "Enable debug logging")

// logger builds the application logger. Debug level only with -v.
func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// decodeLedger loads the ledger file. A missing file is an empty ledger.
func decodeLedger() (*finagent.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return finagent.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return finagent.DecodeLedger(f)
}

// saveLedger rewrites the whole ledger file in canonical form.
func saveLedger(l *finagent.Ledger) error {
	tmp, err := os.CreateTemp(filepath.Dir(*ledgerFile), ".ledger-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := finagent.EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), *ledgerFile)
}

// appendTransaction appends one transaction to the ledger file.
func appendTransaction(tx finagent.Transaction) error {
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return finagent.EncodeTransaction(f, tx)
}

// openStore builds the configured memory backend.
func openStore() (store.Store, error) {
	switch *storeKind {
	case "file":
		return store.NewFileStore(*memoryDir)
	case "sqlite":
		return store.NewSQLiteStore(filepath.Join(*memoryDir, "memory.db"))
	default:
		return nil, fmt.Errorf("unknown store %q (want file or sqlite)", *storeKind)
	}
}

// newGenerator builds the model client, or nil when running offline or
// without credentials. Every caller copes with a nil generator.
func newGenerator(ctx context.Context, log zerolog.Logger) finagent.Generator {
	if *offline {
		return nil
	}
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		log.Debug().Msg("no API key configured, running without a model")
		return nil
	}
	client, err := gemini.NewClient(ctx, *modelName)
	if err != nil {
		log.Warn().Err(err).Msg("could not create model client, running without a model")
		return nil
	}
	return client
}

// newAgent assembles the agent from the global configuration.
func newAgent(ctx context.Context) (*finagent.Agent, error) {
	ledger, err := decodeLedger()
	if err != nil {
		return nil, err
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	log := logger()
	return finagent.New(
		finagent.WithLedger(ledger),
		finagent.WithStore(st, *session),
		finagent.WithGenerator(newGenerator(ctx, log)),
		finagent.WithLogger(log),
	)
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
