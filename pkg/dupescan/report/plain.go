package report

import (
	"bytes"
	"fmt"
)

// PlainFormatter formats the report as plain text: each group label on its
// own line followed by its tab-indented member paths. Suitable for console
// output and simple shell processing.
type PlainFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, group := range r.Groups {
		fmt.Fprintf(w, "%s:\n", group.Label())
		for _, file := range group.Files {
			fmt.Fprintf(w, "\t%s\n", file.Path)
		}
	}

	if len(r.Groups) == 0 {
		w.WriteString("No duplicates found.\n")
	}

	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
