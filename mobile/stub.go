//go:build !mobile

// Package mobile 的桌面构建版本
//
// 不带 mobile 标签时这里只有 Dummy，战斗观察器和录像存储不会初始化，
// 这样 go build ./... 和 go vet ./... 可以在桌面环境下遍历本目录。
package mobile

// Dummy 与 mobile.go 中的同名函数对应
func Dummy() {}
