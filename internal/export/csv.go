// Package export writes contacts as comma-delimited text.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"contacthub/pkg/models"
)

const (
	// Separator joins fields on a row.
	Separator = ", "
	// Missing is written for an absent optional field.
	Missing = "N/A"
)

// Header names the columns in row order.
var Header = []string{"Source Name", "Degrees", "Phone Number", "State", "Company", "Address", "URL", "Dataset"}

type Mode string

const (
	ModeTruncate Mode = "truncate"
	ModeAppend   Mode = "append"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTruncate, ModeAppend:
		return m, nil
	case "":
		return ModeTruncate, nil
	default:
		return "", fmt.Errorf("unknown export mode %q", s)
	}
}

var escaper = strings.NewReplacer(",", ";", "\r\n", " ", "\r", " ", "\n", " ")

// Escape makes s safe to place between separators: commas become
// semicolons and line breaks become spaces.
func Escape(s string) string {
	return escaper.Replace(s)
}

func optional(p *string) string {
	if p == nil {
		return Missing
	}
	return Escape(*p)
}

// Fields renders c as one value per column.
func Fields(c models.Contact) []string {
	return []string{
		Escape(c.Name),
		optional(c.Degrees),
		optional(c.Phone),
		optional(c.State),
		optional(c.Company),
		optional(c.Address),
		Escape(c.URL),
		Escape(c.Source),
	}
}

// Row renders c as one line including the trailing newline.
func Row(c models.Contact) string {
	return strings.Join(Fields(c), Separator) + "\n"
}

// Writer buffers rows for an underlying writer.
type Writer struct {
	w    *bufio.Writer
	rows int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) WriteHeader() error {
	_, err := w.w.WriteString(strings.Join(Header, Separator) + "\n")
	return err
}

func (w *Writer) Write(c models.Contact) error {
	if _, err := w.w.WriteString(Row(c)); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) WriteAll(contacts []models.Contact) error {
	for _, c := range contacts {
		if err := w.Write(c); err != nil {
			return err
		}
	}
	return nil
}

// Rows is the number of contact rows written so far.
func (w *Writer) Rows() int { return w.rows }

func (w *Writer) Flush() error { return w.w.Flush() }

// WriteFile exports contacts to path. Truncate replaces the file; append
// adds rows to it. The header is written only when the file starts out
// empty, so appending never repeats it.
func WriteFile(path string, mode Mode, contacts []models.Contact) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("export: mkdir %s: %w", dir, err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case ModeAppend:
		flags |= os.O_APPEND
	case ModeTruncate, "":
		flags |= os.O_TRUNC
	default:
		return 0, fmt.Errorf("export: unknown mode %q", mode)
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("export: stat %s: %w", path, err)
	}

	w := NewWriter(f)
	if fi.Size() == 0 {
		if err := w.WriteHeader(); err != nil {
			return 0, fmt.Errorf("export: write header: %w", err)
		}
	}
	if err := w.WriteAll(contacts); err != nil {
		return w.Rows(), fmt.Errorf("export: write rows: %w", err)
	}
	if err := w.Flush(); err != nil {
		return w.Rows(), fmt.Errorf("export: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		return w.Rows(), fmt.Errorf("export: fsync: %w", err)
	}
	return w.Rows(), f.Close()
}
