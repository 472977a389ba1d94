package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFallsBackToFirstTheme(t *testing.T) {
	reg := Default()
	all := reg.All()
	require.NotEmpty(t, all)

	got, ok := reg.Resolve("does-not-exist")
	assert.False(t, ok)
	assert.Equal(t, all[0].ID, got.ID)

	got, ok = reg.Resolve("tech")
	assert.True(t, ok)
	assert.Equal(t, LayoutGridComplex, got.Layout)
}

func TestCatalogCoversEveryLayout(t *testing.T) {
	seen := map[Layout]bool{}
	for _, th := range Default().All() {
		seen[th.Layout] = true
		assert.NotEmpty(t, th.Colors.Primary, th.ID)
	}
	for _, l := range []Layout{LayoutSidebarLeft, LayoutSidebarRight, LayoutStacked, LayoutBanner, LayoutSingleColumn, LayoutGridComplex} {
		assert.True(t, seen[l], "layout %s has no theme", l)
	}
}

func TestNewRegistryKeepsFirstDuplicate(t *testing.T) {
	reg := NewRegistry([]Theme{{ID: "a", Name: "first"}, {ID: "a", Name: "second"}}, nil)
	got, ok := reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)
	assert.Len(t, reg.All(), 1)
}

func TestEmptyRegistryStillResolves(t *testing.T) {
	got, ok := NewRegistry(nil, nil).Resolve("x")
	assert.False(t, ok)
	assert.Equal(t, LayoutSingleColumn, got.Layout)
}

func TestOverrides(t *testing.T) {
	reg := Default()
	assert.Equal(t, TitleDoubleRule, reg.OverridesFor("bold").Title)
	assert.True(t, reg.OverridesFor("midnight").Dark)
	assert.Equal(t, Overrides{}, reg.OverridesFor("modern"))
}
