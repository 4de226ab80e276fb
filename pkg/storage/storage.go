// Package storage 打开保存战斗录像的 gdata 存储
//
// Android 上需要先准备目录，其他平台直接交给 gdata。
package storage

import (
	"bytes"
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName 默认存储应用名
const AppName = "beanguard"

// Open 打开 gdata 存储
//
// 参数：
//   - appName: 应用名，为空时使用 AppName
//
// 返回：
//   - *gdata.Manager: 存储管理器
//   - error: 存储目录不可用或 gdata 初始化失败；调用方可以 nil 管理器降级运行
func Open(appName string) (*gdata.Manager, error) {
	if appName == "" {
		appName = AppName
	}
	dir, err := PrepareDir()
	if err != nil {
		return nil, fmt.Errorf("replay directory unavailable: %w", err)
	}
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage: %w", err)
	}
	if dir != "" {
		log.Printf("[Storage] Opened replay storage %q at %s", appName, dir)
	} else {
		log.Printf("[Storage] Opened replay storage %q", appName)
	}
	return manager, nil
}

// OpenOrDegrade 打开存储，失败时记录警告并返回 nil（降级模式）
func OpenOrDegrade(appName string) *gdata.Manager {
	manager, err := Open(appName)
	if err != nil {
		log.Printf("[Storage] Warning: %v (running without persistence)", err)
		return nil
	}
	return manager
}

// packageName 从 /proc/self/cmdline 的内容中取出进程名（即 Android 包名）
// cmdline 以 NUL 分隔参数，只取第一个
func packageName(cmdline []byte) (string, error) {
	if i := bytes.IndexByte(cmdline, 0); i >= 0 {
		cmdline = cmdline[:i]
	}
	name := string(bytes.TrimSpace(cmdline))
	if name == "" {
		return "", fmt.Errorf("empty process name in cmdline")
	}
	return name, nil
}
