package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// BuildInfoResource is the location of the build descriptor written by the frontend build.
const BuildInfoResource = "META-INF/ui/config/build-info.json"

// resourceRoots is the process-wide equivalent of a class path: an ordered list of file systems
// holding packaged resources.
var resourceRoots struct {
	roots []*resourceRoot
	lock  sync.RWMutex
}

type resourceRoot struct {
	fsys fs.FS
}

// RegisterResources appends a file system to the resource lookup path. The returned function
// removes it again.
func RegisterResources(fsys fs.FS) (unregister func()) {
	r := &resourceRoot{fsys: fsys}
	resourceRoots.lock.Lock()
	resourceRoots.roots = append(resourceRoots.roots, r)
	resourceRoots.lock.Unlock()
	return func() {
		resourceRoots.lock.Lock()
		defer resourceRoots.lock.Unlock()
		for i, root := range resourceRoots.roots {
			if root == r {
				resourceRoots.roots = append(resourceRoots.roots[:i:i], resourceRoots.roots[i+1:]...)
				return
			}
		}
	}
}

// LookupResource returns the contents of the first registered resource with the given
// slash-separated name. found is false if no root contains it.
func LookupResource(name string) (data []byte, found bool, err error) {
	resourceRoots.lock.RLock()
	roots := resourceRoots.roots
	resourceRoots.lock.RUnlock()

	for _, r := range roots {
		data, err := fs.ReadFile(r.fsys, name)
		if err == nil {
			return data, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to read resource %s: %w", name, err)
		}
	}
	return nil, false, nil
}

// BuildInfo returns the raw build descriptor, if one is packaged. The framework reads the
// descriptor only through this function.
func BuildInfo() (string, bool, error) {
	data, found, err := LookupResource(BuildInfoResource)
	if err != nil || !found {
		return "", found, err
	}
	return string(data), true, nil
}
