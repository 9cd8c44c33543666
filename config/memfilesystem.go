package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemFileSystem is an in-memory FileSystem for tests.
type MemFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	homeDir    string
	configDir  string
	currentDir string
}

// NewMemFileSystem creates an empty in-memory filesystem rooted at "/".
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files:      make(map[string][]byte),
		homeDir:    "/home/testuser",
		configDir:  "/home/testuser/.config",
		currentDir: "/work",
	}
}

// AddFile stores data under filename.
func (fs *MemFileSystem) AddFile(filename string, data string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[filepath.Clean(filename)] = []byte(data)
}

// SetCurrentDir sets the directory Getwd reports.
func (fs *MemFileSystem) SetCurrentDir(dir string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.currentDir = dir
}

func (fs *MemFileSystem) ReadFile(filename string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	filename = filepath.Clean(filename)
	if data, ok := fs.files[filename]; ok {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
}

func (fs *MemFileSystem) Stat(filename string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	filename = filepath.Clean(filename)
	if data, ok := fs.files[filename]; ok {
		return &memFileInfo{name: filepath.Base(filename), size: int64(len(data))}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: filename, Err: os.ErrNotExist}
}

func (fs *MemFileSystem) UserHomeDir() (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.homeDir, nil
}

func (fs *MemFileSystem) UserConfigDir() (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.configDir, nil
}

func (fs *MemFileSystem) Getwd() (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.currentDir, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (fi *memFileInfo) Name() string       { return fi.name }
func (fi *memFileInfo) Size() int64        { return fi.size }
func (fi *memFileInfo) Mode() os.FileMode  { return 0o644 }
func (fi *memFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *memFileInfo) IsDir() bool        { return false }
func (fi *memFileInfo) Sys() interface{}   { return nil }
