package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes uppercase", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "invalid then yes", input: "maybe\ny\n", want: true},
		{name: "end of input", input: "", wantErr: ErrInputTerminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Delete category Groceries?")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete category Groceries? [y/N]:")
		})
	}
}

func TestPrompter_ConfirmRepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("what\nno\n"), &out)

	got, err := p.Confirm(context.Background(), "Continue?")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "Please answer y or n.")
	assert.Equal(t, 2, strings.Count(out.String(), "Continue? [y/N]:"))
}

func TestPrompter_ConfirmCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	p := NewPrompter(pr, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Confirm(ctx, "Continue?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}
