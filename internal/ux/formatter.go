// Package ux renders command reports as text, JSON or YAML.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter writes a report in one output format.
type Formatter interface {
	Format(data any) error
}

// TextRenderer is implemented by reports with a human-readable form.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// NewFormatter returns the formatter for format, writing to w. An empty
// format means text.
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return &jsonFormatter{w: w}, nil
	case FormatYAML:
		return &yamlFormatter{w: w}, nil
	case FormatText, "":
		return &textFormatter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

type jsonFormatter struct {
	w io.Writer
}

func (f *jsonFormatter) Format(data any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

type yamlFormatter struct {
	w io.Writer
}

func (f *yamlFormatter) Format(data any) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

type textFormatter struct {
	w io.Writer
}

func (f *textFormatter) Format(data any) error {
	switch v := data.(type) {
	case TextRenderer:
		return v.RenderText(f.w)
	case string:
		_, err := fmt.Fprintln(f.w, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.w, v.String())
		return err
	default:
		return fmt.Errorf("no text form for %T", data)
	}
}

var (
	_ Formatter = (*jsonFormatter)(nil)
	_ Formatter = (*yamlFormatter)(nil)
	_ Formatter = (*textFormatter)(nil)
)
