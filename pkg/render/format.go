package render

import (
	"strings"

	"github.com/matzehuels/railpath/pkg/errors"
)

// Format is an output format for rendered frames.
type Format string

// Supported output formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT}

// ParseFormat parses a case-insensitive format name. An empty name means
// [FormatSVG].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatSVG, nil
	case FormatSVG, FormatPNG, FormatDOT:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want svg, png or dot)", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }
