package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name    string
		catName string
		color   string
		wantErr bool
	}{
		{name: "valid", catName: "Food", color: "#FF6B6B"},
		{name: "short color", catName: "Food", color: "#abc"},
		{name: "no color", catName: "Rent"},
		{name: "empty name", catName: "", wantErr: true},
		{name: "blank name", catName: "   ", wantErr: true},
		{name: "bad color", catName: "Food", color: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := NewCategory(tt.catName, "", tt.color)
			if tt.wantErr {
				assert.Nil(t, cat)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cat.ID)
			assert.False(t, cat.CreatedAt.IsZero())
		})
	}
}

func TestNewCategory_UniqueIDs(t *testing.T) {
	a, err := NewCategory("A", "", "")
	require.NoError(t, err)
	b, err := NewCategory("B", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCategoryUpdate_Apply(t *testing.T) {
	cat, err := NewCategory("Food", "Groceries", "")
	require.NoError(t, err)

	name := "Dining"
	updated, err := CategoryUpdate{Name: &name}.Apply(*cat)
	require.NoError(t, err)
	assert.Equal(t, "Dining", updated.Name)
	assert.Equal(t, "Groceries", updated.Description)
	assert.Equal(t, cat.ID, updated.ID)

	blank := " "
	_, err = CategoryUpdate{Name: &blank}.Apply(*cat)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Food", cat.Name)
}
