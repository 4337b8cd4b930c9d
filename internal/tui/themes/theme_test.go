package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/budget-manager/internal/model"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("unknown").Primary)
	assert.Equal(t, Default.Primary, GetTheme("").Primary)
}

func TestTheme_Status(t *testing.T) {
	theme := Default
	assert.Equal(t, theme.StatusError.GetForeground(), theme.Status(model.BudgetOver).GetForeground())
	assert.Equal(t, theme.StatusWarning.GetForeground(), theme.Status(model.BudgetWarning).GetForeground())
	assert.Equal(t, theme.StatusSuccess.GetForeground(), theme.Status(model.BudgetGood).GetForeground())
}

func TestGetCategoryIcon(t *testing.T) {
	assert.Equal(t, "🥬", GetCategoryIcon("Groceries"))
	assert.Equal(t, "📦", GetCategoryIcon("Something Else"))
}
