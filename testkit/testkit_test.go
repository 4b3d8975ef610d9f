package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManualIDGenerator(t *testing.T) {
	g := NewManualIDGenerator()
	require.Equal(t, "run-1", g.NewID())

	g.Queue("01J000000000000000000000AA")
	require.Equal(t, "01J000000000000000000000AA", g.NewID())
	require.Equal(t, "run-2", g.NewID())

	g.Reset()
	require.Equal(t, "run-1", g.NewID())
}

func TestSiteAssets_AddsIndex(t *testing.T) {
	dir := SiteAssets(t, map[string]string{"css/site.css": "body{}"})

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.NotEmpty(t, index)

	css, err := os.ReadFile(filepath.Join(dir, "css", "site.css"))
	require.NoError(t, err)
	require.Equal(t, "body{}", string(css))
}

func TestSiteAssets_KeepsGivenIndex(t *testing.T) {
	dir := SiteAssets(t, map[string]string{"index.html": "custom"})
	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "custom", string(index))
}

func TestEnv_WithHostedZone(t *testing.T) {
	env := New().WithHostedZone("446708209687", "us-east-1", "leafsu.cc", "Z0123456789")
	require.Equal(t, map[string]any{
		"Id":   "/hostedzone/Z0123456789",
		"Name": "leafsu.cc.",
	}, env.Context["hosted-zone:account=446708209687:domainName=leafsu.cc:region=us-east-1"])
}
