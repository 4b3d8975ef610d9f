package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	require.ErrorIs(t, Check(filepath.Join(dir, "missing")), ErrNotFound)
	require.ErrorIs(t, Check(dir), ErrMissingIndex)

	writeFile(t, dir, "not-a-dir.txt", "x")
	require.ErrorIs(t, Check(filepath.Join(dir, "not-a-dir.txt")), ErrNotDirectory)

	require.NoError(t, os.Mkdir(filepath.Join(dir, IndexDocument), 0o700))
	require.ErrorIs(t, Check(dir), ErrMissingIndex, "a directory named index.html is not an index document")

	ok := t.TempDir()
	writeFile(t, ok, IndexDocument, "<html></html>")
	require.NoError(t, Check(ok))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, IndexDocument, "<html>hi</html>")
	writeFile(t, dir, "static/app.js", "console.log(1)")

	manifest, err := Inspect(dir)
	require.NoError(t, err)
	require.Equal(t, dir, manifest.Root)
	require.Equal(t, 2, manifest.Files)
	require.Equal(t, int64(len("<html>hi</html>")+len("console.log(1)")), manifest.Bytes)
	require.Len(t, manifest.Fingerprint, 64)

	again, err := Inspect(dir)
	require.NoError(t, err)
	require.Equal(t, manifest.Fingerprint, again.Fingerprint)
}

func TestInspect_FingerprintTracksContentNotLocation(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, a, IndexDocument, "same")
	writeFile(t, b, IndexDocument, "same")

	ma, err := Inspect(a)
	require.NoError(t, err)
	mb, err := Inspect(b)
	require.NoError(t, err)
	require.Equal(t, ma.Fingerprint, mb.Fingerprint)

	writeFile(t, b, IndexDocument, "changed")
	mb, err = Inspect(b)
	require.NoError(t, err)
	require.NotEqual(t, ma.Fingerprint, mb.Fingerprint)
}

func TestInspect_PathBoundariesAffectFingerprint(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, a, IndexDocument, "")
	writeFile(t, b, IndexDocument, "")
	writeFile(t, a, "ab", "c")
	writeFile(t, b, "a", "bc")

	ma, err := Inspect(a)
	require.NoError(t, err)
	mb, err := Inspect(b)
	require.NoError(t, err)
	require.NotEqual(t, ma.Fingerprint, mb.Fingerprint)
}

func TestInspect_FileBodyCannotImitateNextEntry(t *testing.T) {
	two := t.TempDir()
	writeFile(t, two, IndexDocument, "hi")
	writeFile(t, two, "z", "there")

	one := t.TempDir()
	writeFile(t, one, IndexDocument, "hi1:z\x00there")

	m2, err := Inspect(two)
	require.NoError(t, err)
	m1, err := Inspect(one)
	require.NoError(t, err)
	require.NotEqual(t, m2.Fingerprint, m1.Fingerprint)
}

func TestInspect_PropagatesCheckErrors(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, ErrNotFound)
}
