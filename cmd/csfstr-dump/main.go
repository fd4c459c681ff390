// The csfstr-dump command writes a readable listing of the records in a CSF
// string table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/csftools/csfstr/csf"
	"github.com/csftools/csfstr/profile"
	"github.com/spf13/pflag"
)

const usage = `usage: csfstr-dump [INPUT] [OUTPUT]

Reads a CSF string table from INPUT, and writes to OUTPUT the header and each
record with its offset and raw bytes.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	profilePath := pflag.StringP("profile", "p", "", "YAML file describing a variation of the format")
	pflag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	pflag.Parse()

	d := csf.Decoder{}
	if *profilePath != "" {
		format, err := profile.LoadFile(*profilePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("load profile: %w", err))
			return
		}
		d.Format = format
	}

	args := pflag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
		}
		defer out.Close()
		defer func() {
			if err := out.Sync(); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
			}
		}()
		output = out
	}

	warn, err := d.Dump(output, input)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
	}
}
