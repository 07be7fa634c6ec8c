package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"
)

var (
	// Version is stamped by the release build.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

// exitUsage is returned for bad invocations and I/O failures outside the
// interpreter itself.
const exitUsage = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := run(ctx, os.Args, os.Stdout, os.Stderr, os.LookupEnv)
	stop()
	os.Exit(status)
}

// app carries the streams and the exit status between cli actions.
type app struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	status    int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookupEnv func(string) (string, bool)) int {
	a := &app{stdin: os.Stdin, stdout: stdout, stderr: stderr, lookupEnv: lookupEnv}
	if err := a.command().Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "mrgl: %v\n", err)
		if a.status == 0 {
			return exitUsage
		}
	}
	return a.status
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "mrgl",
		Usage:     "Run Murlang programs. Mrglglglgl!",
		Version:   fmt.Sprintf("v%s %s %s", Version, BuildDate, Commit),
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file (default: murlang.yaml next to the program)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error, none",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file path (if not set, logs to stderr)",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Colour diagnostics: auto, always, never",
			},
		},
		// Allow `mrgl prog.mur` as shorthand for `mrgl run prog.mur`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".mur") {
				return a.runFile(ctx, cmd, cmd.Args().First())
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a .mur program",
				ArgsUsage: "<file.mur>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Spawned units that may run at once (0 = number of CPUs)",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Record the run in a database: sqlite3://path, mysql://dsn or postgres://url",
					},
					&cli.BoolFlag{
						Name:  "debug-ast",
						Usage: "Write the AST next to the program as <file>.ast.json",
					},
					&cli.BoolFlag{
						Name:  "debug-txt-ast",
						Usage: "Write the AST next to the program as <file>.ast.txt",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					file, err := requireFile(cmd)
					if err != nil {
						return err
					}
					return a.runFile(ctx, cmd, file)
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive prompt",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Spawned units that may run at once (0 = number of CPUs)",
					},
				},
				Action: a.replAction,
			},
			{
				Name:      "check",
				Usage:     "Parse a program without running it",
				ArgsUsage: "<file.mur>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tree", Usage: "Print the AST as an indented tree"},
					&cli.BoolFlag{Name: "json", Usage: "Print the AST as JSON"},
				},
				Action: a.checkAction,
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of a program",
				ArgsUsage: "<file.mur>",
				Action:    a.tokensAction,
			},
			{
				Name:  "history",
				Usage: "List recent runs recorded in a journal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Journal DSN (default: journal from configuration)",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   10,
						Usage:   "Number of runs to list",
					},
					&cli.BoolFlag{
						Name:  "units",
						Usage: "Also list the units of each run",
					},
				},
				Action: a.historyAction,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(a.stdout, "mrgl version 'v%s' %s %s\n", Version, BuildDate, Commit)
					return nil
				},
			},
		},
	}
}

func requireFile(cmd *cli.Command) (string, error) {
	if cmd.NArg() == 0 {
		return "", fmt.Errorf("%s: missing <file.mur> argument", cmd.Name)
	}
	return cmd.Args().First(), nil
}
