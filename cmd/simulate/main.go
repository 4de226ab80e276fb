// simulate 无界面运行一场战斗并输出录像
//
// 用法：
//
//	go run ./cmd/simulate -level 1-2 -hero knight -seed 42 -duration 60000 -out replay.json
//	go run ./cmd/simulate -script commands.yaml -store
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/beanguard/pkg/battle"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/replay"
	"github.com/decker502/beanguard/pkg/storage"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	dataDir  = flag.String("data", "data", "配置目录")
	level    = flag.String("level", "1-1", "关卡ID，如 1-2")
	hero     = flag.String("hero", "mage", "英雄ID")
	seed     = flag.Int64("seed", 12345, "随机种子")
	duration = flag.Float64("duration", 30000, "最长模拟时长（毫秒）")
	frameMs  = flag.Float64("frame", replay.DefaultFrameMs, "每帧时长（毫秒）")
	script   = flag.String("script", "", "YAML 指令脚本")
	out      = flag.String("out", "", "录像输出文件，为空时输出到标准输出")
	store    = flag.Bool("store", false, "同时保存到 gdata 录像存储")
)

// scriptCommand 指令脚本中的一条指令
type scriptCommand struct {
	Frame    int64   `yaml:"frame"`
	Player   string  `yaml:"player"`
	Type     string  `yaml:"type"`
	SkillID  string  `yaml:"skill"`
	TargetID string  `yaml:"target"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ItemID   string  `yaml:"item"`
}

// scriptFile 指令脚本
type scriptFile struct {
	Items    map[string]int  `yaml:"items"`
	Commands []scriptCommand `yaml:"commands"`
}

func loadScript(path string) (*scriptFile, error) {
	if path == "" {
		return &scriptFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var s scriptFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &s, nil
}

func (s *scriptFile) commands(defaultPlayer string) []battle.Command {
	cmds := make([]battle.Command, 0, len(s.Commands))
	for _, c := range s.Commands {
		player := c.Player
		if player == "" {
			player = defaultPlayer
		}
		cmds = append(cmds, battle.Command{
			Frame:    c.Frame,
			PlayerID: player,
			Type:     battle.CommandType(c.Type),
			Data: battle.CommandData{
				SkillID: c.SkillID, TargetID: c.TargetID,
				X: c.X, Y: c.Y, ItemID: c.ItemID,
			},
		})
	}
	return cmds
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	provider, err := config.LoadStore(os.DirFS(*dataDir), ".")
	if err != nil {
		fatalf("配置加载失败: %v", err)
	}
	ref, err := battle.ParseLevelRef(*level)
	if err != nil {
		fatalf("%v", err)
	}
	sc, err := loadScript(*script)
	if err != nil {
		fatalf("%v", err)
	}

	const playerID = "p1"
	params := battle.InitParams{
		Players: []battle.PlayerParams{{
			ID:    playerID,
			Hero:  battle.HeroParams{ID: *hero, Position: entity.Vec2{X: 0, Y: 80}},
			Items: sc.Items,
		}},
		Level: ref,
	}

	doc, err := replay.Record(provider, params, *seed, sc.commands(playerID), *duration, *frameMs)
	if err != nil {
		fatalf("模拟失败: %v", err)
	}

	data, err := doc.Encode()
	if err != nil {
		fatalf("录像编码失败: %v", err)
	}
	if *out == "" {
		os.Stdout.Write(append(data, '\n'))
	} else if err := os.WriteFile(*out, data, 0644); err != nil {
		fatalf("写入录像失败: %v", err)
	}

	if *store {
		manager, err := storage.Open(storage.AppName)
		if err != nil {
			fatalf("%v", err)
		}
		if err := replay.NewStore(manager).Save(doc); err != nil {
			fatalf("保存录像失败: %v", err)
		}
	}

	summary := fmt.Sprintf("replay %s: %d frames, %d events", doc.ReplayID, doc.Metadata.Frames, len(doc.Events))
	if res := doc.Metadata.Result; res != nil {
		summary += fmt.Sprintf(", victory=%v reason=%s", res.Victory, res.Reason)
	}
	fmt.Fprintln(os.Stderr, summary)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
