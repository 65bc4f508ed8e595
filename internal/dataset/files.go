package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// checkDataDir fails with a configuration error unless dir is a readable directory.
func checkDataDir(dir string) error {
	if dir == "" {
		return apperr.New(apperr.CodeConfiguration, "project has no data directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeConfiguration, "data directory is not accessible").WithMeta("data_dir", dir)
	}
	if !info.IsDir() {
		return apperr.New(apperr.CodeConfiguration, "data directory is not a directory").WithMeta("data_dir", dir)
	}
	f, err := os.Open(dir)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeConfiguration, "data directory is not readable").WithMeta("data_dir", dir)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && err != io.EOF {
		return apperr.Wrap(err, apperr.CodeConfiguration, "data directory is not readable").WithMeta("data_dir", dir)
	}
	return nil
}

// copyFile copies src to dst, creating dst's parent directories.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "create "+filepath.Dir(dst))
	}
	in, err := os.Open(src)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "open "+src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "create "+dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return apperr.Wrap(err, apperr.CodeIO, "copy "+src)
	}
	if err := out.Close(); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "close "+dst)
	}
	return nil
}

// checkpoint stops a run between tasks once ctx is done.
func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "run aborted")
	}
	return nil
}

// dataPath resolves a stored slash-separated data path under the project directory.
func dataPath(dataDir, rel string) string {
	return filepath.Join(dataDir, filepath.FromSlash(rel))
}
