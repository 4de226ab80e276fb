// Package replay 负责战斗录像的录制、重放和校验
//
// 录像文档只包含初始化参数、随机种子和玩家指令；事件序列用于校验：
// 以相同参数重新模拟必须得到逐字节一致的事件。
package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/decker502/beanguard/pkg/battle"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/event"
)

// Version 录像格式版本
const Version = "1.0"

// DefaultFrameMs 默认帧长（毫秒）
const DefaultFrameMs = 50.0

// ErrDesync 重放结果与录像不一致
var ErrDesync = errors.New("replay desync")

// EventRecord 单条事件记录
type EventRecord struct {
	Time  float64         `json:"time"`
	Frame int64           `json:"frame"`
	Type  event.Type      `json:"type"`
	Data  json.RawMessage `json:"data"`
}

// Metadata 录像元数据
type Metadata struct {
	BattleDuration float64        `json:"battleDuration"`
	Chapter        int            `json:"chapter"`
	Stage          int            `json:"stage"`
	Players        int            `json:"players"`
	Version        string         `json:"version"`
	FrameMs        float64        `json:"frameMs"`
	Frames         int64          `json:"frames"`
	Result         *battle.Result `json:"result,omitempty"`
}

// Document 录像文档
type Document struct {
	ReplayID   string            `json:"replayId"`
	RandomSeed int64             `json:"randomSeed"`
	InitParams battle.InitParams `json:"initParams"`
	Commands   []battle.Command  `json:"commands"`
	Events     []EventRecord     `json:"events"`
	Metadata   Metadata          `json:"metadata"`
}

// Encode 编码为缩进 JSON
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Decode 解析录像文档
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if doc.Metadata.FrameMs <= 0 {
		doc.Metadata.FrameMs = DefaultFrameMs
	}
	return &doc, nil
}

// Record 录制一场战斗
//
// 参数：
//   - provider: 配置来源
//   - params: 初始化参数
//   - seed: 随机种子
//   - commands: 玩家指令脚本，帧号必须从 1 开始
//   - duration: 最长模拟时长（毫秒），战斗提前结束时停止
//   - frameMs: 每帧时长，<=0 时使用 DefaultFrameMs
//
// 返回：
//   - *Document: 录像文档，只包含被接受的指令
//   - error: 初始化失败
func Record(provider config.Provider, params battle.InitParams, seed int64, commands []battle.Command, duration, frameMs float64) (*Document, error) {
	if frameMs <= 0 {
		frameMs = DefaultFrameMs
	}

	m := battle.New(provider)
	if err := m.InitBattle(params, seed); err != nil {
		return nil, fmt.Errorf("failed to init battle: %w", err)
	}
	rec := NewRecorder(m)
	defer rec.Close()

	if err := m.StartBattle(); err != nil {
		return nil, fmt.Errorf("failed to start battle: %w", err)
	}
	for _, cmd := range commands {
		if err := rec.Submit(cmd); err != nil {
			log.Printf("[Replay] command dropped: %v", err)
		}
	}

	for m.Elapsed() < duration && !m.GetState().IsTerminal() {
		m.Update(frameMs)
	}

	return rec.Document(frameMs), nil
}

// Run 按录像文档重新模拟，返回重放得到的事件
func Run(provider config.Provider, doc *Document) ([]EventRecord, error) {
	frameMs := doc.Metadata.FrameMs
	if frameMs <= 0 {
		frameMs = DefaultFrameMs
	}

	m := battle.New(provider)
	if err := m.InitBattle(doc.InitParams, doc.RandomSeed); err != nil {
		return nil, fmt.Errorf("failed to init battle: %w", err)
	}
	rec := NewRecorder(m)
	defer rec.Close()

	if err := m.StartBattle(); err != nil {
		return nil, fmt.Errorf("failed to start battle: %w", err)
	}
	for _, cmd := range doc.Commands {
		if err := m.SubmitCommand(cmd); err != nil {
			return nil, fmt.Errorf("%w: recorded command rejected: %v", ErrDesync, err)
		}
	}

	for m.Frame() < doc.Metadata.Frames && !m.GetState().IsTerminal() {
		m.Update(frameMs)
	}
	return rec.Records(), nil
}

// Verify 重放录像并与记录的事件逐条比较
func Verify(provider config.Provider, doc *Document) error {
	got, err := Run(provider, doc)
	if err != nil {
		return err
	}
	return Compare(doc.Events, got)
}

// Compare 比较两组事件，返回第一处差异
func Compare(want, got []EventRecord) error {
	n := min(len(want), len(got))
	for i := 0; i < n; i++ {
		if err := sameRecord(want[i], got[i]); err != nil {
			return fmt.Errorf("%w: event %d: %v", ErrDesync, i, err)
		}
	}
	if len(want) != len(got) {
		return fmt.Errorf("%w: expected %d events, got %d", ErrDesync, len(want), len(got))
	}
	return nil
}

func sameRecord(a, b EventRecord) error {
	if a.Frame != b.Frame || a.Time != b.Time || a.Type != b.Type {
		return fmt.Errorf("expected %s@%d, got %s@%d", a.Type, a.Frame, b.Type, b.Frame)
	}
	// 缩进编码会改变 RawMessage 的空白，比较前统一压缩
	ca, err := compact(a.Data)
	if err != nil {
		return err
	}
	cb, err := compact(b.Data)
	if err != nil {
		return err
	}
	if !bytes.Equal(ca, cb) {
		return fmt.Errorf("%s payload differs: %s != %s", a.Type, ca, cb)
	}
	return nil
}

func compact(data json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	return buf.Bytes(), nil
}
