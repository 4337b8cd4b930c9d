package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrInputTerminated is returned when input ends before an answer is given.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks the user yes/no questions.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter; nil reader or writer fall back to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Confirm asks question and returns true for y/yes. An empty answer means no;
// anything else is asked again.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(p.writer, "%s ", FormatPrompt(question+" [y/N]:")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, ErrInputTerminated
			}
			return false, err
		}

		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Please answer y or n.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}
