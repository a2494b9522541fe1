// Package output provides formatted rendering of mined templates.
// It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/drift/internal/drain"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteClusters outputs mined clusters in the configured format.
func (wr *Writer) WriteClusters(clusters []drain.Cluster) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(clusters)
	case FormatTable:
		return wr.writeTable(clusters)
	default:
		return wr.writeText(clusters)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (wr *Writer) writeText(clusters []drain.Cluster) error {
	for _, c := range clusters {
		fmt.Fprintf(wr.w, "[%d] (%d) %s\n", c.ID, c.Matches, c.TemplateString())
	}
	return nil
}

func (wr *Writer) writeTable(clusters []drain.Cluster) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMATCHES\tTEMPLATE")
	fmt.Fprintln(tw, "--\t-------\t--------")

	for _, c := range clusters {
		template := c.TemplateString()
		if len(template) > 100 {
			template = template[:97] + "..."
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\n", c.ID, c.Matches, template)
	}

	return tw.Flush()
}
