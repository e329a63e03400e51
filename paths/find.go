// Package paths finds and accesses the files the commands work on.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// EnvSearchPath names the environment variable holding extra directories,
// separated like $PATH, that Find looks in before the working directory.
const EnvSearchPath = "DMI_PATH"

func getPossiblePathDirs() []string {
	dirs := filepath.SplitList(os.Getenv(EnvSearchPath))
	return append(dirs, ".")
}

func getPossiblePaths(fileName string) []string {
	if filepath.IsAbs(fileName) {
		return []string{fileName}
	}
	var paths []string
	for _, dir := range getPossiblePathDirs() {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, fileName))
	}
	return paths
}

// Find locates the passed file shortname and returns an absolute or relative
// path to find the file at.
//
// For example, for "mob.dmi" with DMI_PATH=/srv/icons it may return
// "/srv/icons/mob.dmi". If the file is nowhere to be found, an empty string
// is returned.
func Find(fileName string) string {
	for _, path := range getPossiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.V(2).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}
