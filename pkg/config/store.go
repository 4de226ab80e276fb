package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrNotFound 配置ID不存在
var ErrNotFound = errors.New("config: not found")

// LoadError 配置加载失败（ConfigLoadError）
// 加载失败对会话创建是致命的，不会在战斗中途恢复
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config load failed: %v", e.Err)
	}
	return fmt.Sprintf("config load failed: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Provider 只读配置查询接口
// 返回的记录在多个战斗会话间共享，调用方不得修改
//
//go:generate go tool mockgen -destination=configmock/provider_mock.go -package=configmock . Provider
type Provider interface {
	GetHero(id string) (*HeroConfig, error)
	GetBean(id string) (*BeanConfig, error)
	GetSkill(id string) (*SkillConfig, error)
	GetItem(id string) (*ItemConfig, error)
	GetLevel(id string) (*LevelConfig, error)
	Beans() []*BeanConfig
}

// Store 配置存储，加载完成后只读，可被并发的多个战斗会话安全共享
type Store struct {
	heroes   map[string]*HeroConfig
	beans    map[string]*BeanConfig
	beanList []*BeanConfig
	skills   map[string]*SkillConfig
	items    map[string]*ItemConfig
	levels   map[string]*LevelConfig
}

// Tables 一次性构建 Store 所需的全部配置表
type Tables struct {
	Heroes []HeroConfig  `yaml:"heroes"`
	Beans  []BeanConfig  `yaml:"beans"`
	Skills []SkillConfig `yaml:"skills"`
	Items  []ItemConfig  `yaml:"items"`
	Levels []LevelConfig `yaml:"levels"`
}

var tableExtensions = []string{".yaml", ".yml", ".json"}

// LoadStore 从文件系统加载全部配置表
//
// 目录结构：
//
//	dir/heroes.yaml  dir/beans.yaml  dir/skills.yaml  dir/items.yaml（可选）
//	dir/levels/*.yaml
//
// YAML 是 JSON 的超集，因此 .json 文件同样可以被解析
//
// 返回：
//   - *Store: 校验通过的配置存储
//   - error: *LoadError，读取、解析或校验失败
func LoadStore(fsys fs.FS, dir string) (*Store, error) {
	var tables Tables

	if err := readTable(fsys, dir, "heroes", true, &tables); err != nil {
		return nil, err
	}
	if err := readTable(fsys, dir, "beans", true, &tables); err != nil {
		return nil, err
	}
	if err := readTable(fsys, dir, "skills", true, &tables); err != nil {
		return nil, err
	}
	if err := readTable(fsys, dir, "items", false, &tables); err != nil {
		return nil, err
	}

	levelDir := path.Join(dir, "levels")
	entries, err := fs.ReadDir(fsys, levelDir)
	if err != nil {
		return nil, &LoadError{Path: levelDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !hasTableExtension(entry.Name()) {
			continue
		}
		p := path.Join(levelDir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		var level LevelConfig
		if err := yaml.Unmarshal(data, &level); err != nil {
			return nil, &LoadError{Path: p, Err: fmt.Errorf("failed to parse level: %w", err)}
		}
		tables.Levels = append(tables.Levels, level)
	}

	store, err := NewStore(tables)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}

	log.Printf("[ConfigStore] Loaded %d heroes, %d beans, %d skills, %d items, %d levels from %s",
		len(store.heroes), len(store.beans), len(store.skills), len(store.items), len(store.levels), dir)
	return store, nil
}

// readTable 读取单个配置表文件（依次尝试 .yaml/.yml/.json）
func readTable(fsys fs.FS, dir, name string, required bool, tables *Tables) error {
	for _, ext := range tableExtensions {
		p := path.Join(dir, name+ext)
		data, err := fs.ReadFile(fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return &LoadError{Path: p, Err: err}
		}
		if err := yaml.Unmarshal(data, tables); err != nil {
			return &LoadError{Path: p, Err: fmt.Errorf("failed to parse %s: %w", name, err)}
		}
		return nil
	}
	if required {
		return &LoadError{Path: path.Join(dir, name+".yaml"), Err: fs.ErrNotExist}
	}
	return nil
}

func hasTableExtension(name string) bool {
	ext := path.Ext(name)
	for _, e := range tableExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NewStore 从内存中的配置表构建 Store
// 会应用默认值并执行完整校验
func NewStore(t Tables) (*Store, error) {
	s := &Store{
		heroes: make(map[string]*HeroConfig, len(t.Heroes)),
		beans:  make(map[string]*BeanConfig, len(t.Beans)),
		skills: make(map[string]*SkillConfig, len(t.Skills)),
		items:  make(map[string]*ItemConfig, len(t.Items)),
		levels: make(map[string]*LevelConfig, len(t.Levels)),
	}

	for i := range t.Skills {
		sk := t.Skills[i]
		applySkillDefaults(&sk)
		if err := validateSkill(&sk); err != nil {
			return nil, err
		}
		if _, dup := s.skills[sk.ID]; dup {
			return nil, fmt.Errorf("duplicate skill id %q", sk.ID)
		}
		s.skills[sk.ID] = &sk
	}

	for i := range t.Heroes {
		h := t.Heroes[i]
		applyHeroDefaults(&h)
		if err := validateHero(&h, s.skills); err != nil {
			return nil, err
		}
		if _, dup := s.heroes[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hero id %q", h.ID)
		}
		s.heroes[h.ID] = &h
	}

	for i := range t.Beans {
		b := t.Beans[i]
		applyBeanDefaults(&b)
		if err := validateBean(&b, s.skills); err != nil {
			return nil, err
		}
		if _, dup := s.beans[b.ID]; dup {
			return nil, fmt.Errorf("duplicate bean id %q", b.ID)
		}
		s.beans[b.ID] = &b
		s.beanList = append(s.beanList, &b)
	}
	sort.Slice(s.beanList, func(i, j int) bool { return s.beanList[i].ID < s.beanList[j].ID })

	for i := range t.Items {
		it := t.Items[i]
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: id is required", i)
		}
		if _, ok := s.skills[it.SkillID]; !ok {
			return nil, fmt.Errorf("item %s: unknown skill %q", it.ID, it.SkillID)
		}
		s.items[it.ID] = &it
	}

	for i := range t.Levels {
		l := t.Levels[i]
		applyLevelDefaults(&l)
		if err := validateLevel(&l, s.beans); err != nil {
			return nil, err
		}
		if _, dup := s.levels[l.ID]; dup {
			return nil, fmt.Errorf("duplicate level id %q", l.ID)
		}
		s.levels[l.ID] = &l
	}

	// 召唤目标需要在所有表加载后再校验
	for _, sk := range s.skills {
		if sk.Summon == nil {
			continue
		}
		var ok bool
		if sk.Summon.Unit == SummonHero {
			_, ok = s.heroes[sk.Summon.ID]
		} else {
			_, ok = s.beans[sk.Summon.ID]
		}
		if !ok {
			return nil, fmt.Errorf("skill %s: unknown summon %s %q", sk.ID, sk.Summon.Unit, sk.Summon.ID)
		}
	}

	return s, nil
}

// GetHero 查询英雄配置
func (s *Store) GetHero(id string) (*HeroConfig, error) {
	if h, ok := s.heroes[id]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: hero %q", ErrNotFound, id)
}

// GetBean 查询小豆配置
func (s *Store) GetBean(id string) (*BeanConfig, error) {
	if b, ok := s.beans[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: bean %q", ErrNotFound, id)
}

// GetSkill 查询技能配置
func (s *Store) GetSkill(id string) (*SkillConfig, error) {
	if sk, ok := s.skills[id]; ok {
		return sk, nil
	}
	return nil, fmt.Errorf("%w: skill %q", ErrNotFound, id)
}

// GetItem 查询道具配置
func (s *Store) GetItem(id string) (*ItemConfig, error) {
	if it, ok := s.items[id]; ok {
		return it, nil
	}
	return nil, fmt.Errorf("%w: item %q", ErrNotFound, id)
}

// GetLevel 查询关卡配置
func (s *Store) GetLevel(id string) (*LevelConfig, error) {
	if l, ok := s.levels[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: level %q", ErrNotFound, id)
}

// Beans 返回全部小豆配置（按ID排序）
func (s *Store) Beans() []*BeanConfig {
	out := make([]*BeanConfig, len(s.beanList))
	copy(out, s.beanList)
	return out
}

// LevelIDs 返回全部关卡ID（按章节、关卡号排序）
func (s *Store) LevelIDs() []string {
	levels := make([]*LevelConfig, 0, len(s.levels))
	for _, l := range s.levels {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Chapter != levels[j].Chapter {
			return levels[i].Chapter < levels[j].Chapter
		}
		if levels[i].Stage != levels[j].Stage {
			return levels[i].Stage < levels[j].Stage
		}
		return levels[i].ID < levels[j].ID
	})
	ids := make([]string, len(levels))
	for i, l := range levels {
		ids[i] = l.ID
	}
	return ids
}
