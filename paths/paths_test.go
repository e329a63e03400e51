package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestFindInSearchPath(t *testing.T) {
	empty, full := t.TempDir(), t.TempDir()
	want := filepath.Join(full, "mob.dmi")
	require.NoError(t, os.WriteFile(want, []byte("x"), 0644))
	t.Setenv(EnvSearchPath, empty+string(filepath.ListSeparator)+full)

	ttesting.AssertEqualString(t, "found in second dir", Find("mob.dmi"), want)
	ttesting.AssertEqualString(t, "missing", Find("nothing-here.dmi"), "")
}

func TestFindAbsolute(t *testing.T) {
	want := filepath.Join(t.TempDir(), "abs.dmi")
	require.NoError(t, os.WriteFile(want, nil, 0644))
	t.Setenv(EnvSearchPath, "")

	ttesting.AssertEqualString(t, "absolute path", Find(want), want)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.dmi")

	ok, err := Exists(path)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, WriteFile(path, []byte("data")))
	ok, err = Exists(path)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, WriteFile(path, []byte("first, longer")))
	require.NoError(t, WriteFile(path, []byte("second")))

	b, err := ReadFile(path)
	require.NoError(t, err)
	ttesting.AssertEqualString(t, "overwritten", string(b), "second")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestSetupFilePathFlag(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "flagged.dmi")
	require.NoError(t, os.WriteFile(want, nil, 0644))
	t.Setenv(EnvSearchPath, dir)

	var got string
	SetupFilePathFlag("flagged.dmi", "test_flagged_path", &got)
	ttesting.AssertEqualString(t, "default", got, want)
}
