// Package csfstr converts CSF-style binary string tables into STR text files.
//
// The conversion itself is implemented by the csf package. This package adds
// handling of files on disk.
package csfstr

import (
	"fmt"
	"io"
	"os"

	"github.com/csftools/csfstr/csf"
)

// ConvertFile decodes the string table at inPath and writes STR text to
// outPath, which is created or truncated. Both files are closed before
// returning, whether or not an error occurs. Output written before an error
// remains in the file.
//
// warn and err are as returned by csf.Decoder.Convert.
func ConvertFile(outPath, inPath string, d csf.Decoder) (warn, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	return ConvertReader(outPath, in, d)
}

// ConvertReader decodes the string table read from r and writes STR text to
// outPath, as ConvertFile does. A failure to sync or close the output is
// returned as an error.
func ConvertReader(outPath string, r io.Reader, d csf.Decoder) (warn, err error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if warn, err = d.Convert(out, r); err != nil {
		return warn, err
	}
	if err = out.Sync(); err != nil {
		return warn, fmt.Errorf("sync output: %w", err)
	}
	return warn, nil
}
