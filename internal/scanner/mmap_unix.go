package scanner

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps f read-only for its full size, the same x/sys/unix
// touchpoint the archive extractor uses for its free-space preflight.
func mmapFile(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}
	return unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
}

func munmapFile(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}
