// replayverify 并发校验录像能否被逐字节重现
//
// 用法：
//
//	go run ./cmd/replayverify replay1.json replay2.json
//	go run ./cmd/replayverify -stored -j 8
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/replay"
	"github.com/decker502/beanguard/pkg/storage"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	dataDir  = flag.String("data", "data", "配置目录")
	stored   = flag.Bool("stored", false, "校验 gdata 录像存储中的全部录像")
	parallel = flag.Int("j", runtime.NumCPU(), "并发数")
)

// source 待校验的录像来源
type source struct {
	name string
	load func() (*replay.Document, error)
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	provider, err := config.LoadStore(os.DirFS(*dataDir), ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	var sources []source
	for _, path := range flag.Args() {
		sources = append(sources, source{name: path, load: func() (*replay.Document, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return replay.Decode(data)
		}})
	}
	if *stored {
		manager, err := storage.Open(storage.AppName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		store := replay.NewStore(manager)
		for _, entry := range store.List() {
			id := entry.ID
			sources = append(sources, source{name: id, load: func() (*replay.Document, error) {
				return store.Load(id)
			}})
		}
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "no replays to verify")
		os.Exit(2)
	}

	results := make([]error, len(sources))
	var g errgroup.Group
	g.SetLimit(max(1, *parallel))
	for i, src := range sources {
		g.Go(func() error {
			doc, err := src.load()
			if err == nil {
				err = replay.Verify(provider, doc)
			}
			results[i] = err
			return nil
		})
	}
	g.Wait()

	failed := 0
	for i, src := range sources {
		if err := results[i]; err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", src.name, err)
			continue
		}
		fmt.Printf("ok   %s\n", src.name)
	}
	if failed > 0 {
		fmt.Printf("%d/%d replays failed\n", failed, len(sources))
		os.Exit(1)
	}
}
