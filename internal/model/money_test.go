package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.5", want: "12.50"},
		{input: "$1,200.00", want: "1200.00"},
		{input: "  7 ", want: "7.00"},
		{input: "-3", want: "-3.00"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12.5.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				var merr *MalformedInputError
				require.True(t, errors.As(err, &merr))
				assert.Equal(t, tt.input, merr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 29, got.Day())
	assert.Equal(t, 0, got.Hour())

	for _, bad := range []string{"2023-02-29", "02/03/2024", "yesterday", ""} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrMalformedInput, bad)
	}
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Entity: "category", Key: "Fod", Suggestion: "Food"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `did you mean "Food"`)
	assert.False(t, errors.Is(err, ErrValidation))
}
