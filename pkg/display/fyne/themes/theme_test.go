package themes

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestDefault_Color(t *testing.T) {
	d := Default{}
	assert.Equal(t, overlayGreen, d.Color(theme.ColorNamePrimary, theme.VariantLight))
	assert.Equal(t, surfaceA20, d.Color(ColorNameBackgroundOnBackground, theme.VariantDark))
	assert.Equal(t, theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark), d.Color(theme.ColorNameForeground, theme.VariantLight))
}
