package markings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestMergeFresh(t *testing.T) {
	icon := Merge(Fresh{}, 32, 48, []*dmi.State{{Name: "a"}, {Name: "b"}})
	ttesting.AssertEqualString(t, "version", icon.Version, dmi.DefaultVersion)
	ttesting.AssertEqualInt(t, "width", icon.Width, 32)
	ttesting.AssertEqualInt(t, "height", icon.Height, 48)
	ttesting.AssertEqualStrings(t, "states", names(icon.States), []string{"a", "b"})
}

func TestMergeAppend(t *testing.T) {
	existing := dmi.New(16, 16)
	existing.Version = "3.0"
	existing.States = []*dmi.State{{Name: "x"}, {Name: "a"}}

	icon := Merge(Append{Existing: existing}, 32, 32, []*dmi.State{{Name: "a"}})
	ttesting.AssertEqualString(t, "version", icon.Version, dmi.DefaultVersion)
	ttesting.AssertEqualInt(t, "input width wins", icon.Width, 32)
	ttesting.AssertEqualStrings(t, "states", names(icon.States), []string{"x", "a", "a"})
	ttesting.AssertEqualInt(t, "existing untouched", len(existing.States), 2)
}

func TestResolveDestination(t *testing.T) {
	dir := t.TempDir()

	dst, err := ResolveDestination(filepath.Join(dir, "new.dmi"))
	require.NoError(t, err)
	require.Equal(t, Fresh{}, dst)

	path := filepath.Join(dir, "old.dmi")
	writeIcon(t, path, spriteState("idle", 1, 1))
	dst, err = ResolveDestination(path)
	require.NoError(t, err)
	app, ok := dst.(Append)
	require.True(t, ok, "got %T; want Append", dst)
	ttesting.AssertEqualStrings(t, "existing states", names(app.Existing.States), []string{"idle"})

	bad := filepath.Join(dir, "bad.dmi")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0644))
	_, err = ResolveDestination(bad)
	require.Error(t, err)
}
