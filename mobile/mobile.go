//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要把 data/ 复制到本目录：
//
//	cp -r data mobile/data
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.beanguard -o build/android/beanguard.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/beanguard/pkg/app"
	"github.com/decker502/beanguard/pkg/embedded"
	"github.com/decker502/beanguard/pkg/replay"
	"github.com/decker502/beanguard/pkg/storage"
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	provider, err := embedded.LoadConfig()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:  true,
		Provider: provider,
		Level:    "1-1",
		Hero:     "mage",
		Seed:     12345,
		Replays:  replay.NewStore(storage.OpenOrDegrade(storage.AppName)),
	})
	if err != nil {
		log.Fatalf("战斗初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
