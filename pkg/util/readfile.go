package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapThreshold is the size above which ReadFile maps the file instead of
// reading it. Spec and registry files are usually far smaller.
const mmapThreshold = 64 * 1024

// ReadFile returns the contents of path. Large files are memory-mapped and
// copied out so that the mapping can be released immediately; if mapping
// fails the file is read normally.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() < mmapThreshold {
		return os.ReadFile(path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return os.ReadFile(path)
	}
	defer m.Unmap()

	data := make([]byte, len(m))
	copy(data, m)
	return data, nil
}
