package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/nroux/finagent"
)

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "bulk-import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `fina import -file <csv>

  Imports transactions from a CSV file with a 'date,amount,description'
  header. Each row is inserted independently: malformed rows are
  reported with their line number and skipped, valid rows still import.

Usage Examples:
$ fina import -file transactions.csv
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "CSV file to import.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required.")
		return subcommands.ExitUsageError
	}
	rows, err := readCSV(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	results := agent.BulkImport(ctx, rows)
	var imported, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "row %d: %v\n", res.Row, res.Err)
			continue
		}
		imported++
		if err := appendTransaction(res.Transaction); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Imported %d transaction(s), %d failed.\n", imported, failed)
	if imported == 0 && failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readCSV parses the import file into boundary rows. Column order and
// parsing errors inside a row are the agent's concern; only the file
// shape is validated here.
func readCSV(path string) ([]finagent.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%q is empty", path)
	}

	header := records[0]
	if !strings.EqualFold(header[0], "date") || !strings.EqualFold(header[1], "amount") {
		return nil, fmt.Errorf("%q: want a 'date,amount,description' header, got %q", path, strings.Join(header, ","))
	}

	rows := make([]finagent.ImportRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, finagent.ImportRow{
			Date:        rec[0],
			Amount:      rec[1],
			Description: rec[2],
		})
	}
	return rows, nil
}
