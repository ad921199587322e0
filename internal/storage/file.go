// Package storage 设置 blob 的宿主持久化实现
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

// File 单个 JSON 文件，权限 0600
type File struct {
	path string
}

var _ settings.Backend = (*File)(nil)

// NewFile 创建文件后端
func NewFile(path string) *File {
	return &File{path: path}
}

// Path 文件路径
func (f *File) Path() string {
	return f.path
}

// Load 读取文件，不存在时返回 nil, nil
func (f *File) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	return data, nil
}

// Save 先写临时文件再重命名
func (f *File) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("renaming settings file: %w", err)
	}
	return nil
}
