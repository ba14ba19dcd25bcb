package app

import (
	"io"
	"io/fs"
)

type FileSystem interface {
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error
	// CopyFile copies content, permission bits and timestamps.
	CopyFile(src, dst string) error
	Create(path string) (io.WriteCloser, error)
}
