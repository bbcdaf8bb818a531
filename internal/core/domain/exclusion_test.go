package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionZone_Validate(t *testing.T) {
	valid := ExclusionZone{X: 0.4, Y: 0.95, Width: 0.2, Height: 0.05, AppliesTo: SideBoth}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, ExclusionZone{X: -0.1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, ExclusionZone{Width: 1.5}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, ExclusionZone{AppliesTo: "middle"}.Validate(), ErrInvalidInput)
}

func TestExclusionZone_Rect(t *testing.T) {
	zone := ExclusionZone{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25}
	assert.Equal(t, image.Rect(100, 200, 300, 300), zone.Rect(400, 400))

	// A zone extending past the page edge clamps to the page.
	edge := ExclusionZone{X: 0.9, Y: 0.9, Width: 0.5, Height: 0.5}
	assert.Equal(t, image.Rect(360, 360, 400, 400), edge.Rect(400, 400))
}

func TestZoneSet_For(t *testing.T) {
	set := ZoneSet{Zones: []ExclusionZone{
		{Name: "left-only", AppliesTo: SideLeft, Enabled: true},
		{Name: "right-only", AppliesTo: SideRight, Enabled: true},
		{Name: "both", AppliesTo: SideBoth, Enabled: true},
		{Name: "defaulted", Enabled: true},
		{Name: "disabled", AppliesTo: SideBoth, Enabled: false},
	}}

	left := set.For(SideLeft)
	require.Len(t, left, 3)
	names := []string{left[0].Name, left[1].Name, left[2].Name}
	assert.Equal(t, []string{"left-only", "both", "defaulted"}, names)

	right := set.For(SideRight)
	assert.Len(t, right, 3)
}

func TestZoneSet_Validate(t *testing.T) {
	bad := ZoneSet{Zones: []ExclusionZone{
		{X: 0.1, Width: 0.1},
		{Y: 2.0},
	}}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "zone 1")
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.NotEmpty(t, presets)
	for name, zone := range presets {
		assert.NoError(t, zone.Validate(), "preset %s", name)
		assert.True(t, zone.Enabled, "preset %s must be enabled", name)
		assert.Equal(t, SideBoth, zone.AppliesTo, "preset %s", name)
	}

	footer, ok := presets["footer"]
	require.True(t, ok)
	assert.Equal(t, 1.0, footer.Width)
}
