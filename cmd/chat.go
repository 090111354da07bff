package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type chatCmd struct{}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "start an interactive session with the assistant" }
func (*chatCmd) Usage() string {
	return `fina chat [<message>]

  With a message, asks one question and prints the answer. Without one,
  starts an interactive session; type 'quit' or press Ctrl-D to leave.
  The conversation is remembered across sessions, bounded.
`
}

func (c *chatCmd) SetFlags(f *flag.FlagSet) {}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agent, err := newAgent(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if f.NArg() > 0 {
		reply, err := agent.Chat(ctx, strings.Join(f.Args(), " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		printMarkdown(reply)
		return subcommands.ExitSuccess
	}

	fmt.Println("Ask about your finances. Type 'quit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "quit" || message == "exit" {
			break
		}
		reply, err := agent.Chat(ctx, message)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		printMarkdown(reply)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
