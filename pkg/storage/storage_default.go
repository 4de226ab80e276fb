//go:build !android

package storage

// PrepareDir 桌面平台由 gdata 自行创建目录，录像目录路径由 gdata 决定
func PrepareDir() (string, error) {
	return "", nil
}

// Dir 桌面平台返回空字符串
func Dir() string {
	return ""
}
