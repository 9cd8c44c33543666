package config

import (
	"os"
)

// FileSystem is the read-only slice of the OS the loader needs. Tests swap in
// MemFileSystem so no real config or .env file is ever touched.
type FileSystem interface {
	ReadFile(filename string) ([]byte, error)
	Stat(filename string) (os.FileInfo, error)
	UserHomeDir() (string, error)
	UserConfigDir() (string, error)
	Getwd() (string, error)
}

// OsFileSystem implements FileSystem on the real operating system.
type OsFileSystem struct{}

func (fs *OsFileSystem) ReadFile(filename string) ([]byte, error)  { return os.ReadFile(filename) }
func (fs *OsFileSystem) Stat(filename string) (os.FileInfo, error) { return os.Stat(filename) }
func (fs *OsFileSystem) UserHomeDir() (string, error)              { return os.UserHomeDir() }
func (fs *OsFileSystem) UserConfigDir() (string, error)            { return os.UserConfigDir() }
func (fs *OsFileSystem) Getwd() (string, error)                    { return os.Getwd() }
