//go:build android

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// PrepareDir 创建 gdata 在 Android 上使用的目录并检查可写
//
// gdata 把录像文档和录像索引写在 /data/data/{package}/saves 下，
// 但不会自己创建该目录。
//
// 返回：
//   - string: 录像所在目录
//   - error: 无法识别包名、创建目录失败或目录不可写
func PrepareDir() (string, error) {
	dir := Dir()
	if dir == "" {
		return "", fmt.Errorf("cannot resolve android package name")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create replay directory %s: %w", dir, err)
	}

	marker := filepath.Join(dir, ".beanguard_write_check")
	if err := os.WriteFile(marker, nil, 0644); err != nil {
		return "", fmt.Errorf("replay directory %s is not writable: %w", dir, err)
	}
	os.Remove(marker)
	return dir, nil
}

// Dir 录像目录，无法识别包名时返回空字符串
func Dir() string {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	pkg, err := packageName(cmdline)
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg, "saves")
}
