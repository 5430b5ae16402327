//go:build !windows

package director

import (
	"errors"
	"os"
	"syscall"
)

// makeFifo creates a named pipe at path with the original's 0777 mode
// (gtk DirectorExtension.cxx MakePipe).
func makeFifo(path string) error {
	err := syscall.Mkfifo(path, 0777)
	if errors.Is(err, syscall.EEXIST) {
		return nil
	}
	return err
}

// openFifoNonblockRW opens path non-blocking for read+write, mirroring
// OpenPipe's O_RDWR | O_NONBLOCK: opening for both ends from this side
// means the reader never blocks waiting for a writer to appear.
func openFifoNonblockRW(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openFifoNonblockWrite opens an existing pipe path for non-blocking
// writes only; used when sending to a pipe this process did not create.
func openFifoNonblockWrite(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_WRONLY|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
