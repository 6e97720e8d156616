// internal/artifact/final.go
package artifact

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// FinalStatus is what happens to an intermediate artifact after a run. It
// affects storage only.
type FinalStatus string

const (
	Keep     FinalStatus = "keep"
	Compress FinalStatus = "compress"
	Delete   FinalStatus = "delete"
)

func ParseFinalStatus(s string) (FinalStatus, error) {
	switch FinalStatus(s) {
	case Keep, Compress, Delete:
		return FinalStatus(s), nil
	case "":
		return Keep, nil
	}
	return "", fmt.Errorf("artifact: bad temp_files policy %q (want keep, compress or delete)", s)
}

// Finalize applies status to path and returns where the data now lives
// ("" when deleted). Missing files are ignored.
func Finalize(path string, status FinalStatus) (string, error) {
	if !Exists(path) {
		return "", nil
	}
	switch status {
	case Delete:
		return "", os.Remove(path)
	case Compress:
		if strings.HasSuffix(path, ".gz") {
			return path, nil
		}
		gzPath := path + ".gz"
		if err := gzipFile(path, gzPath); err != nil {
			return path, err
		}
		return gzPath, os.Remove(path)
	default:
		return path, nil
	}
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst + ".part")
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, err = io.Copy(gw, in)
	if cerr := gw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst + ".part")
		return err
	}
	return os.Rename(dst+".part", dst)
}
