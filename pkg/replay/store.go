package replay

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrReplayNotFound 录像不存在
var ErrReplayNotFound = errors.New("replay not found")

// 存储路径常量
const (
	replayObject  = "replays"
	indexObject   = "replay_index"
	indexProperty = "entries"
)

// IndexEntry 录像索引条目
type IndexEntry struct {
	ID       string  `yaml:"id"`
	Chapter  int     `yaml:"chapter"`
	Stage    int     `yaml:"stage"`
	Seed     int64   `yaml:"seed"`
	Frames   int64   `yaml:"frames"`
	Duration float64 `yaml:"duration"`
	Victory  bool    `yaml:"victory"`
	Reason   string  `yaml:"reason,omitempty"`
}

// Store 录像存储
// 文档以 JSON 保存，索引以 YAML 保存；可在多个 goroutine 间共享
type Store struct {
	mu           sync.Mutex
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	memory       map[string][]byte
	index        []IndexEntry
}

// NewStore 创建录像存储
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，录像仅保存在内存中）
//
// 返回：
//   - *Store: 存储实例；索引加载失败时以空索引继续
func NewStore(gdataManager *gdata.Manager) *Store {
	s := &Store{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
	if err := s.loadIndex(); err != nil {
		log.Printf("[ReplayStore] Warning: failed to load index: %v (starting empty)", err)
	}
	return s
}

func (s *Store) loadIndex() error {
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(indexObject, indexProperty) {
		return nil
	}
	data, err := s.gdataManager.LoadObjectProp(indexObject, indexProperty)
	if err != nil {
		return fmt.Errorf("failed to load replay index: %w", err)
	}
	var entries []IndexEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal replay index: %w", err)
	}
	s.index = entries
	return nil
}

func (s *Store) saveIndex() error {
	if s.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.index)
	if err != nil {
		return fmt.Errorf("failed to marshal replay index: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(indexObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to save replay index: %w", err)
	}
	return nil
}

// Save 保存录像并更新索引，相同 ID 覆盖旧条目
func (s *Store) Save(doc *Document) error {
	if doc.ReplayID == "" {
		return errors.New("replay has no id")
	}
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to marshal replay: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		s.memory[doc.ReplayID] = data
	} else if err := s.gdataManager.SaveObjectProp(replayObject, doc.ReplayID, data); err != nil {
		return fmt.Errorf("failed to save replay %s: %w", doc.ReplayID, err)
	}

	entry := IndexEntry{
		ID:       doc.ReplayID,
		Chapter:  doc.Metadata.Chapter,
		Stage:    doc.Metadata.Stage,
		Seed:     doc.RandomSeed,
		Frames:   doc.Metadata.Frames,
		Duration: doc.Metadata.BattleDuration,
	}
	if res := doc.Metadata.Result; res != nil {
		entry.Victory, entry.Reason = res.Victory, res.Reason
	}
	replaced := false
	for i := range s.index {
		if s.index[i].ID == entry.ID {
			s.index[i], replaced = entry, true
			break
		}
	}
	if !replaced {
		s.index = append(s.index, entry)
	}

	log.Printf("[ReplayStore] Saved replay %s (%d events)", doc.ReplayID, len(doc.Events))
	return s.saveIndex()
}

// Load 读取录像
func (s *Store) Load(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	if s.gdataManager == nil {
		var ok bool
		if data, ok = s.memory[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrReplayNotFound, id)
		}
	} else {
		if !s.gdataManager.ObjectPropExists(replayObject, id) {
			return nil, fmt.Errorf("%w: %s", ErrReplayNotFound, id)
		}
		var err error
		if data, err = s.gdataManager.LoadObjectProp(replayObject, id); err != nil {
			return nil, fmt.Errorf("failed to load replay %s: %w", id, err)
		}
	}
	return Decode(data)
}

// List 按关卡和 ID 排序的索引副本
func (s *Store) List() []IndexEntry {
	s.mu.Lock()
	out := append([]IndexEntry(nil), s.index...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Chapter != out[j].Chapter {
			return out[i].Chapter < out[j].Chapter
		}
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		return out[i].ID < out[j].ID
	})
	return out
}
