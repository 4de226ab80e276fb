package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/beanguard/pkg/app"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/embedded"
	"github.com/decker502/beanguard/pkg/replay"
	"github.com/decker502/beanguard/pkg/storage"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	level    = flag.String("level", "1-1", "关卡ID，如 1-2")
	hero     = flag.String("hero", "mage", "英雄ID")
	seed     = flag.Int64("seed", 12345, "随机种子")
	dataDir  = flag.String("data", "", "配置目录，为空时使用内嵌数据")
	noReplay = flag.Bool("no-replay", false, "战斗结束后不保存录像")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	var (
		provider *config.Store
		err      error
	)
	if *dataDir != "" {
		provider, err = config.LoadStore(os.DirFS(*dataDir), ".")
	} else {
		provider, err = embedded.LoadConfig()
	}
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	var replays *replay.Store
	if !*noReplay {
		replays = replay.NewStore(storage.OpenOrDegrade(storage.AppName))
	}

	game, err := app.NewApp(app.Config{
		Verbose:  *verbose,
		Provider: provider,
		Level:    *level,
		Hero:     *hero,
		Seed:     *seed,
		Replays:  replays,
	})
	if err != nil {
		log.Fatalf("战斗初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("豆子守卫 - 战斗观察器")
	ebiten.SetTPS(app.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
