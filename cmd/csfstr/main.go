// The csfstr command converts a CSF string table into a STR text file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/csftools/csfstr"
	"github.com/csftools/csfstr/csf"
	"github.com/csftools/csfstr/profile"
	"github.com/spf13/pflag"
)

const usage = `usage: csfstr [FLAGS] INPUT OUTPUT

Reads a binary CSF string table from INPUT, and writes to OUTPUT the strings in
STR text format.

INPUT and OUTPUT are paths to files. If INPUT is "-", then stdin is used. If
OUTPUT is "-", then stdout is used. Warnings and errors are written to stderr.

If a record cannot be decoded, OUTPUT ends with a line beginning with
"// ERROR:" after the last good record.

Flags:
`

var (
	profilePath = pflag.StringP("profile", "p", "", "YAML file describing a variation of the format")
	crlf        = pflag.Bool("crlf", false, "terminate output lines with CRLF")
	quiet       = pflag.BoolP("quiet", "q", false, "suppress warnings and the completion message")
)

// validate checks that both paths are given and that the input exists. A path
// of only whitespace counts as not given.
func validate(input, output string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("Select an input file")
	}
	if input != "-" {
		if _, err := os.Stat(input); err != nil {
			return errors.New("Can't find input file")
		}
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("Select an output file")
	}
	return nil
}

func run(input, output string) (warn, err error) {
	format := csf.DefaultFormat()
	if *profilePath != "" {
		if format, err = profile.LoadFile(*profilePath); err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}
	if *crlf {
		format.Newline = "\r\n"
	}
	d := csf.Decoder{Format: format}

	switch {
	case output != "-" && input != "-":
		return csfstr.ConvertFile(output, input, d)
	case output != "-":
		return csfstr.ConvertReader(output, os.Stdin, d)
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		in, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer in.Close()
		r = in
	}
	return d.Convert(os.Stdout, r)
}

func main() {
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()
	args := pflag.Args()

	var input, output string
	if len(args) >= 1 {
		input = args[0]
	}
	if len(args) >= 2 {
		output = args[1]
	}
	if err := validate(input, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(2)
	}

	warn, err := run(input, output)
	if warn != nil && !*quiet {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("Error: %w", err))
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintln(os.Stderr, "Done")
	}
}
