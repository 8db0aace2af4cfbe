package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/koume-z/tablepick"
)

// promptMissing interactively fills in the options the user did not pass
// on the command line. It is entered only when --url is absent; options
// that were given explicitly keep their values. Prompts write to stderr so
// stdout stays reserved for table output.
func promptMissing(cli *CLI, args []string, stdin io.Reader, stderr io.Writer) error {
	reader := bufio.NewReader(stdin)

	url, err := promptURL(reader, stderr)
	if err != nil {
		return err
	}
	cli.URL = url

	if !hasFlag(args, "format") {
		format, err := promptFormat(reader, stderr, cli.Format)
		if err != nil {
			return err
		}
		cli.Format = format
	}

	if !hasFlag(args, "out-dir") {
		line, err := promptLine(reader, stderr, "Output directory (empty: no files written): ")
		if err != nil {
			return err
		}
		cli.OutDir = line
	}

	if !hasFlag(args, "filename-base") {
		line, err := promptLine(reader, stderr, fmt.Sprintf("Filename base (%s): ", cli.FilenameBase))
		if err != nil {
			return err
		}
		if line != "" {
			cli.FilenameBase = line
		}
	}

	if !hasFlag(args, "stdout") && !hasFlag(args, "no-stdout") {
		line, err := promptLine(reader, stderr, "Print tables to stdout? [Y/n]: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(line) {
		case "n", "no":
			cli.Stdout = false
		default:
			cli.Stdout = true
		}
	}

	return nil
}

// promptURL asks for a URL until it passes strict validation.
func promptURL(reader *bufio.Reader, stderr io.Writer) (string, error) {
	for {
		line, err := promptLine(reader, stderr, "URL (http/https): ")
		if err != nil {
			return "", err
		}
		if vErr := tablepick.ValidateURL(line); vErr != nil {
			fmt.Fprintf(stderr, "%s\n", tablepick.ErrorMessage(vErr))
			continue
		}
		return line, nil
	}
}

// promptFormat asks for csv or json; empty input keeps the default.
func promptFormat(reader *bufio.Reader, stderr io.Writer, def string) (string, error) {
	for {
		line, err := promptLine(reader, stderr, fmt.Sprintf("Output format [csv/json] (%s): ", def))
		if err != nil {
			return "", err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "csv", "json":
			return strings.ToLower(line), nil
		}
		fmt.Fprintln(stderr, "Please answer csv or json.")
	}
}

// promptLine shows a prompt and reads one trimmed line.
func promptLine(reader *bufio.Reader, stderr io.Writer, prompt string) (string, error) {
	fmt.Fprint(stderr, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", tablepick.WrapErrorf(err, tablepick.EINTERNAL, "interactive input ended")
	}
	return strings.TrimSpace(line), nil
}
