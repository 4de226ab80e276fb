// Package wave 管理小豆的波次节奏和生成组成
package wave

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
	"github.com/decker502/beanguard/pkg/rng"
)

// 波次难度曲线常量
const (
	BaseBeanCount    = 5   // 第 0 波的小豆数量
	BeansPerWave     = 2   // 每波增加的数量
	MaxBeansPerWave  = 20  // 单波数量上限
	IntervalStep     = 100 // 每波缩短的生成间隔（毫秒）
	MinSpawnInterval = 500 // 生成间隔下限（毫秒）
	BeanIDPrefix     = "bean"
)

// Plan 单个波次的生成计划
type Plan struct {
	Wave          int
	BeanCount     int
	SpawnInterval float64 // 毫秒
	Types         []string
}

// SpawnOrder 一次生成指令，由战斗管理器据此创建小豆单位
type SpawnOrder struct {
	ID       string
	Config   *config.BeanConfig
	Stats    config.Stats // 已按关卡 attrFactors 缩放
	Position entity.Vec2
	Wave     int
}

// IDAllocator 分配单位ID（通常是 Registry.NextID）
type IDAllocator func(prefix string) string

// Manager 波次管理器
//
// 只负责"生成什么、生成多少、间隔多久"，不持有计时器；
// 计时由战斗管理器统一驱动，保证单一时钟。
type Manager struct {
	provider config.Provider
	level    *config.LevelConfig
	rng      *rng.Source
	bus      *event.Bus
	nextID   IDAllocator

	currentWave int
	plan        Plan
	planned     int // 已计划的小豆总数

	verbose bool
}

// NewManager 创建波次管理器
//
// 参数：
//   - provider: 配置查询
//   - level: 当前关卡配置
//   - src: 战斗会话的随机数源
//   - bus: 事件总线
//   - nextID: 小豆ID分配器
func NewManager(provider config.Provider, level *config.LevelConfig, src *rng.Source, bus *event.Bus, nextID IDAllocator) *Manager {
	return &Manager{
		provider: provider,
		level:    level,
		rng:      src,
		bus:      bus,
		nextID:   nextID,
	}
}

// SetVerbose 设置是否输出详细日志
func (m *Manager) SetVerbose(verbose bool) {
	m.verbose = verbose
}

// CurrentWave 当前波次（未开始时为 0）
func (m *Manager) CurrentWave() int { return m.currentWave }

// CurrentPlan 当前波次的生成计划
func (m *Manager) CurrentPlan() Plan { return m.plan }

// BeanCountForWave 第 wave 波的小豆数量：min(5 + 2*wave, 20)
func BeanCountForWave(wave int) int {
	n := BaseBeanCount + wave*BeansPerWave
	if n > MaxBeansPerWave {
		return MaxBeansPerWave
	}
	return n
}

// IntervalForWave 第 wave 波的生成间隔：max(base - 100*wave, 500)
func IntervalForWave(base float64, wave int) float64 {
	return math.Max(base-float64(wave*IntervalStep), MinSpawnInterval)
}

// Exhausted 所有波次是否都已开始
// MaxWaves 和 TotalBeans 都未配置时波次无限
func (m *Manager) Exhausted() bool {
	if m.level.MaxWaves > 0 && m.currentWave >= m.level.MaxWaves {
		return true
	}
	if m.level.TotalBeans > 0 && m.planned >= m.level.TotalBeans {
		return true
	}
	return false
}

// StartNewWave 开始下一波并发布 wave_start
func (m *Manager) StartNewWave() Plan {
	m.currentWave++

	count := BeanCountForWave(m.currentWave)
	if m.level.TotalBeans > 0 {
		if remaining := m.level.TotalBeans - m.planned; count > remaining {
			count = remaining
		}
	}
	if count < 0 {
		count = 0
	}
	m.planned += count

	m.plan = Plan{
		Wave:          m.currentWave,
		BeanCount:     count,
		SpawnInterval: IntervalForWave(m.level.SpawnInterval, m.currentWave),
		Types:         m.unlockedTypes(),
	}

	log.Printf("[WaveManager] Wave %d started: %d beans, interval %.0fms, types %v",
		m.plan.Wave, m.plan.BeanCount, m.plan.SpawnInterval, m.plan.Types)

	m.bus.Emit(event.WaveStartEvent{
		Wave:          m.plan.Wave,
		BeanCount:     m.plan.BeanCount,
		SpawnInterval: m.plan.SpawnInterval,
		Types:         append([]string(nil), m.plan.Types...),
	})
	return m.plan
}

// unlockedTypes 关卡允许且在当前波次已解锁的小豆类型，按关卡配置顺序
// 没有任何类型解锁时退化为关卡允许的全部类型
func (m *Manager) unlockedTypes() []string {
	unlocked := make(map[string]bool)
	for _, b := range m.provider.Beans() {
		if b.UnlockWave <= m.currentWave {
			unlocked[b.ID] = true
		}
	}

	types := make([]string, 0, len(m.level.BeanRatios))
	all := make([]string, 0, len(m.level.BeanRatios))
	for _, r := range m.level.BeanRatios {
		all = append(all, r.Type)
		if unlocked[r.Type] {
			types = append(types, r.Type)
		}
	}
	if len(types) == 0 {
		return all
	}
	return types
}

// SpawnBeans 从 types 中选择一种小豆，生成在以 (centerX, centerY) 为圆心、
// 半径为关卡 spawnDistance 的圆周上的随机位置，并发布 spawn_bean
//
// 选择方式由关卡 spawnMode 决定：uniform 均匀，weighted 按 beanRatios 权重。
func (m *Manager) SpawnBeans(types []string, centerX, centerY float64) (SpawnOrder, error) {
	if len(types) == 0 {
		return SpawnOrder{}, fmt.Errorf("no bean types to spawn in wave %d", m.currentWave)
	}

	var idx int
	if m.level.SpawnMode == config.SpawnWeighted {
		weights := make([]int, len(types))
		for i, t := range types {
			if r, ok := m.level.Ratio(t); ok {
				weights[i] = r.Weight
			}
		}
		idx = m.rng.PickWeighted(weights)
	} else {
		idx = m.rng.Pick(len(types))
	}
	beanType := types[idx]

	cfg, err := m.provider.GetBean(beanType)
	if err != nil {
		return SpawnOrder{}, fmt.Errorf("spawn wave %d: %w", m.currentWave, err)
	}

	angle := m.rng.Next() * 2 * math.Pi
	pos := entity.Vec2{
		X: centerX + math.Cos(angle)*m.level.SpawnDistance,
		Y: centerY + math.Sin(angle)*m.level.SpawnDistance,
	}

	stats := cfg.Stats
	if r, ok := m.level.Ratio(beanType); ok {
		stats = stats.Scaled(r.AttrFactors)
	}

	order := SpawnOrder{
		ID:       m.nextID(BeanIDPrefix),
		Config:   cfg,
		Stats:    stats,
		Position: pos,
		Wave:     m.currentWave,
	}

	if m.verbose {
		log.Printf("[WaveManager] Spawn %s (%s) at (%.1f, %.1f)", order.ID, beanType, pos.X, pos.Y)
	}
	m.bus.Emit(event.SpawnBeanEvent{
		ID:       order.ID,
		BeanType: beanType,
		Position: pos,
		Wave:     m.currentWave,
	})
	return order, nil
}

// Reset 波次归零并发布 wave_reset
func (m *Manager) Reset() {
	m.currentWave = 0
	m.planned = 0
	m.plan = Plan{}
	m.bus.Emit(event.WaveResetEvent{})
}
