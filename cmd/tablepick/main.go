// Command tablepick fetches a web page, extracts every HTML table, and
// emits each one as CSV or JSON to stdout and/or per-table files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/koume-z/tablepick"
	tpfs "github.com/koume-z/tablepick/fs"
	tpgoquery "github.com/koume-z/tablepick/goquery"
	tphttp "github.com/koume-z/tablepick/http"
	tpslog "github.com/koume-z/tablepick/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "[tablepick:error] %s\n", errorText(err))
		os.Exit(exitCode(err))
	}
}

// errorText returns the message to show the user: the classified message
// for application errors, the full error otherwise.
func errorText(err error) string {
	if tablepick.ErrorCode(err) != tablepick.EINTERNAL {
		return tablepick.ErrorMessage(err)
	}
	return err.Error()
}

// exitCode maps classified errors to 1 and everything else (including
// flag-parsing failures) to 2.
func exitCode(err error) int {
	if tablepick.ErrorCode(err) == tablepick.EINTERNAL {
		return 2
	}
	return 1
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL          string           `help:"Target URL (scheme required: http/https)."`
	Format       string           `help:"Output format." enum:"csv,json" default:"csv"`
	OutDir       string           `help:"Directory to write output files. If omitted, files are not written."`
	FilenameBase string           `help:"Base name for output files." default:"tablepick"`
	Stdout       bool             `help:"Print tables to stdout (disable with --no-stdout)." default:"true" negatable:""`
	JSONIndent   int              `name:"json-indent" help:"Indent level for JSON output (format=json only)."`
	EnsureASCII  bool             `name:"ensure-ascii" help:"Escape non-ASCII characters in JSON output (format=json only)."`
	Timeout      int              `help:"HTTP request timeout in seconds." default:"10"`
	Retries      int              `help:"Number of retries on request failure." default:"0"`
	MaxRedirects int              `help:"Maximum number of redirects to follow." default:"3"`
	Debug        bool             `help:"Emit diagnostic detail to stderr."`
	Version      kong.VersionFlag `help:"Show version and exit."`
}

// Main represents the program. The fields allow tests to substitute
// implementations; Run fills in the real ones when they are nil.
type Main struct {
	Fetcher   tablepick.Fetcher
	Extractor tablepick.Extractor
	NewWriter func(dir, base string) tablepick.TableWriter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments. stdin feeds the
// interactive prompt used when --url is absent.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tablepick"),
		kong.Description("Extract all <table> elements from a web page and output as CSV/JSON to stdout or files."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"version": "tablepick " + tablepick.Version},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if hasFlag(args, "help") || hasShortFlag(args, "h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}
	// kong's VersionFlag prints and calls Exit, which is a no-op here;
	// stop explicitly so the run does not continue past it.
	if hasFlag(args, "version") {
		_, _ = parser.Parse([]string{"--version"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	// Interactive mode: no --url on the command line. Prompt for the
	// output-shaping options too, unless they were given explicitly.
	if cli.URL == "" {
		if err := promptMissing(cli, args, stdin, stderr); err != nil {
			return err
		}
	}

	logLevel := slog.LevelError
	if cli.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if cli.Debug {
		logger.Debug("config",
			"url", cli.URL,
			"format", cli.Format,
			"outDir", cli.OutDir,
			"filenameBase", cli.FilenameBase,
			"stdout", cli.Stdout,
			"jsonIndent", cli.JSONIndent,
			"ensureASCII", cli.EnsureASCII,
			"timeout", cli.Timeout,
			"retries", cli.Retries,
			"maxRedirects", cli.MaxRedirects,
		)
	}

	if err := m.run(ctx, cli, stdout, stderr, logger); err != nil {
		if cli.Debug {
			logger.Error("run failed", "error", err)
		}
		return err
	}
	return nil
}

// run executes the fetch → extract → serialize → route pipeline.
func (m *Main) run(ctx context.Context, cli *CLI, stdout, stderr io.Writer, logger *slog.Logger) error {
	// Usage errors are reported before any network I/O.
	if !cli.Stdout && cli.OutDir == "" {
		return tablepick.Errorf(tablepick.ENOOUTPUTTARGET,
			"no output target: stdout is disabled and no --out-dir was given")
	}
	if err := tablepick.ValidateURL(cli.URL); err != nil {
		return err
	}

	format := tablepick.Format(cli.Format)
	jsonOpts := tablepick.JSONOptions{Indent: cli.JSONIndent, EnsureASCII: cli.EnsureASCII}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = tphttp.NewFetcher(
			tphttp.WithTimeout(time.Duration(cli.Timeout)*time.Second),
			tphttp.WithRetries(cli.Retries),
			tphttp.WithMaxRedirects(cli.MaxRedirects),
		)
	}
	fetcher = tpslog.NewFetcher(fetcher, logger)

	extractor := m.Extractor
	if extractor == nil {
		extractor = tpgoquery.NewExtractor()
	}

	var writer tablepick.TableWriter
	if cli.OutDir != "" {
		if m.NewWriter != nil {
			writer = m.NewWriter(cli.OutDir, cli.FilenameBase)
		} else {
			writer = tpfs.NewWriter(cli.OutDir, cli.FilenameBase)
		}
	}

	page, err := fetcher.Fetch(ctx, cli.URL)
	if err != nil {
		return err
	}

	tables, err := extractor.Extract(page.HTML)
	if err != nil {
		return err
	}

	// Zero tables is a successful run with empty output.
	written := 0
	for i, table := range tables {
		payload, err := tablepick.Serialize(table, format, jsonOpts)
		if err != nil {
			return err
		}

		if cli.Stdout {
			fmt.Fprintf(stdout, "===== table %02d (%s) =====\n", i+1, format)
			fmt.Fprintln(stdout, payload)
			if i != len(tables)-1 {
				fmt.Fprintln(stdout)
			}
		}

		if writer != nil {
			path, err := writer.WriteTable(i+1, payload, format)
			if err != nil {
				return err
			}
			logger.Debug("wrote table", "path", path)
			written++
		}
	}

	// Keep status chatter off stdout so piped output stays clean.
	if cli.OutDir != "" {
		fmt.Fprintf(stderr, "[tablepick] wrote %d file(s) to: %s\n", written, cli.OutDir)
	}

	return nil
}

// hasFlag reports whether --name appears in args, in either "--name" or
// "--name=value" form.
func hasFlag(args []string, name string) bool {
	long := "--" + name
	for _, arg := range args {
		if arg == long || len(arg) > len(long) && arg[:len(long)+1] == long+"=" {
			return true
		}
	}
	return false
}

func hasShortFlag(args []string, name string) bool {
	short := "-" + name
	for _, arg := range args {
		if arg == short {
			return true
		}
	}
	return false
}
