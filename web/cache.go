package web

import (
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-dmi/paths"
)

// loaded is a decoded file along with what the file looked like when it was
// read.
type loaded[T any] struct {
	value   T
	modTime time.Time
	size    int64
}

// fileCache keeps decoded files in memory until they change on disk.
// Concurrent loads of the same path share a single read and decode.
type fileCache[T any] struct {
	decode func([]byte) (T, error)

	mu      sync.Mutex
	entries map[string]*loaded[T]
	group   singleflight.Group
}

func newFileCache[T any](decode func([]byte) (T, error)) *fileCache[T] {
	return &fileCache[T]{
		decode:  decode,
		entries: make(map[string]*loaded[T]),
	}
}

func (c *fileCache[T]) get(path string) (*loaded[T], error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "web: checking %q", path)
	}

	c.mu.Lock()
	e, ok := c.entries[path]
	c.mu.Unlock()
	if ok && e.modTime.Equal(fi.ModTime()) && e.size == fi.Size() {
		return e, nil
	}
	if ok {
		glog.Warningf("web: %q changed on disk, reloading", path)
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		b, err := paths.ReadFile(path)
		if err != nil {
			return nil, err
		}
		value, err := c.decode(b)
		if err != nil {
			return nil, errors.Wrapf(err, "web: decoding %q", path)
		}
		e := &loaded[T]{value: value, modTime: fi.ModTime(), size: int64(len(b))}
		c.mu.Lock()
		c.entries[path] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*loaded[T]), nil
}
