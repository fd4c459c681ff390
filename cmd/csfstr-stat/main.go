// The csfstr-stat command displays stats for a CSF string table.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/csftools/csfstr/csf"
	"github.com/csftools/csfstr/errors"
	"github.com/csftools/csfstr/profile"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/blake2b"
)

const usage = `usage: csfstr-stat [INPUT] [OUTPUT]

Reads a CSF string table from INPUT, and writes to OUTPUT statistics for the
file as JSON.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

type Stats struct {
	// Decoder counts.
	Format csf.DecoderStats

	// Size of the input in bytes.
	Size int

	// BLAKE2b-256 digest of the input, in hex.
	Digest string

	// Header bytes, in hex.
	Header string `json:",omitempty"`

	// Number of records sharing a key with an earlier record.
	DuplicateKeys int

	// Length in bytes of the longest decoded value.
	LongestValue int
}

// Fill decodes data according to f and records statistics about it in s.
func (s *Stats) Fill(data []byte, f csf.Format) (warn, err error) {
	sum := blake2b.Sum256(data)
	s.Size = len(data)
	s.Digest = hex.EncodeToString(sum[:])

	r, err := csf.NewReader(data, f)
	if err != nil {
		return nil, err
	}
	s.Header = hex.EncodeToString(r.Header().Bytes)

	var stop error
	keys := map[string]bool{}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			stop = err
			break
		}
		if keys[rec.Key] {
			s.DuplicateKeys++
		}
		keys[rec.Key] = true
		if n := len(rec.Value); n > s.LongestValue {
			s.LongestValue = n
		}
	}
	s.Format = r.Stats()
	return errors.Union(r.Warnings(), stop), nil
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	profilePath := pflag.StringP("profile", "p", "", "YAML file describing a variation of the format")
	pflag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	pflag.Parse()

	format := csf.DefaultFormat()
	if *profilePath != "" {
		var err error
		if format, err = profile.LoadFile(*profilePath); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("load profile: %w", err))
			return
		}
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
		output = out
	}

	data, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		return
	}

	var stats Stats
	warn, err := stats.Fill(data, format)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
	}

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}
