package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZonesCmd_ListsPresets(t *testing.T) {
	out, err := execute("zones")
	require.NoError(t, err)

	assert.True(t, containsAll(out, "footer", "header", "page-number", "page-number-right", "slide-number"), out)
}

func TestZonesListCmd(t *testing.T) {
	out, err := execute("zones", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "footer")
}
