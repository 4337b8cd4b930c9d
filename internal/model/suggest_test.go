package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestName(t *testing.T) {
	names := []string{"Groceries", "Rent", "Entertainment", "Utilities"}

	tests := []struct {
		target string
		want   string
	}{
		{"Grocerys", "Groceries"},
		{"groceries", "Groceries"},
		{"rnet", "Rent"},
		{"Entertainmnt", "Entertainment"},
		{"Vacation", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, ClosestName(tt.target, names))
		})
	}
}

func TestFindCategoryByName(t *testing.T) {
	categories := []Category{{ID: "1", Name: "Food"}, {ID: "2", Name: "Rent"}}

	cat, err := FindCategoryByName(" Food ", categories)
	require.NoError(t, err)
	assert.Equal(t, "1", cat.ID)

	_, err = FindCategoryByName("Fod", categories)
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Food", nf.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "Food"?`)
}
