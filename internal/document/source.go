// Package document reads resumes and job descriptions and extracts their text.
package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Source is a named document whose raw bytes can be read.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// File is a document on the local filesystem.
type File struct {
	path string
}

// FileSource returns a Source reading path.
func FileSource(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Read(context.Context) ([]byte, error) {
	return os.ReadFile(f.path)
}

// Size returns the file size in bytes.
func (f *File) Size() (int64, error) {
	st, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// Buffer is an in-memory document, such as an upload or pasted text.
type Buffer struct {
	name string
	data []byte
}

// BufferSource returns a Source over data. The name decides the extractor.
func BufferSource(name string, data []byte) *Buffer {
	return &Buffer{name: name, data: data}
}

func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) Read(context.Context) ([]byte, error) {
	return b.data, nil
}

// Size returns the buffer length.
func (b *Buffer) Size() (int64, error) {
	return int64(len(b.data)), nil
}

type sizer interface {
	Size() (int64, error)
}

type typed interface {
	Extension() string
}

// FileInfo describes a document without extracting it.
type FileInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

// Info describes src. Size is -1 when the source cannot report it.
func Info(src Source) (FileInfo, error) {
	info := FileInfo{Name: filepath.Base(src.Name()), Size: -1, Extension: extension(src)}
	if s, ok := src.(sizer); ok {
		size, err := s.Size()
		if err != nil {
			return FileInfo{}, err
		}
		info.Size = size
	}
	return info, nil
}

// DisplayName is the base name of a source, used in reports.
func DisplayName(src Source) string {
	if _, ok := src.(*URL); ok {
		return src.Name()
	}
	return filepath.Base(src.Name())
}

func extension(src Source) string {
	if t, ok := src.(typed); ok {
		if ext := t.Extension(); ext != "" {
			return ext
		}
	}
	return strings.ToLower(filepath.Ext(src.Name()))
}
