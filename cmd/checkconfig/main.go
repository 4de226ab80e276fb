// checkconfig 校验配置目录能否被加载
//
// 用法：
//
//	go run ./cmd/checkconfig -data data
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/decker502/beanguard/pkg/config"
)

var dataDir = flag.String("data", "data", "配置目录")

func main() {
	flag.Parse()

	store, err := config.LoadStore(os.DirFS(*dataDir), ".")
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			fmt.Printf("❌ %s: %v\n", loadErr.Path, loadErr.Err)
		} else {
			fmt.Printf("❌ 配置加载失败: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ 配置格式正确\n")
	fmt.Printf("✅ 小豆类型数量: %d\n", len(store.Beans()))

	ids := store.LevelIDs()
	fmt.Printf("✅ 关卡数量: %d\n", len(ids))
	for _, id := range ids {
		level, err := store.GetLevel(id)
		if err != nil {
			fmt.Printf("❌ 关卡 %s: %v\n", id, err)
			os.Exit(1)
		}
		fmt.Printf("   %s %s victory=%s defeat=%s\n", id, level.Name, level.VictoryCondition.Type, level.DefeatCondition.Type)
	}
}
