// Package battle 战斗会话：状态机、单位生命周期、指令回放和胜负判定
//
// Manager 是战斗会话的根聚合，独占全部单位；配置存储以只读方式共享。
// 所有操作在调用方的 goroutine 中同步完成，一个 Manager 不能被并发调用。
package battle

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/beanguard/pkg/combat"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
	"github.com/decker502/beanguard/pkg/rng"
	"github.com/decker502/beanguard/pkg/wave"
)

// CrystalID 水晶的固定ID
const CrystalID = "crystal"

// heroRoster InitBattle 时解析好的英雄模板
type heroRoster struct {
	playerID string
	config   *config.HeroConfig
	stats    config.Stats
	skills   []*config.SkillConfig
	position entity.Vec2
	level    int
	items    map[string]int
}

// Option 构造选项
type Option func(*Manager)

// WithVerbose 开启调试日志
func WithVerbose(verbose bool) Option {
	return func(m *Manager) { m.verbose = verbose }
}

// WithBus 使用外部事件总线（默认新建）
func WithBus(bus *event.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

// Manager 战斗管理器
type Manager struct {
	provider config.Provider
	bus      *event.Bus
	rng      *rng.Source
	registry *entity.Registry
	skills   *combat.SkillManager
	waves    *wave.Manager

	params InitParams
	seed   int64
	level  *config.LevelConfig
	roster []heroRoster

	state   State
	frame   int64
	elapsed float64

	crystal *entity.Entity
	players map[string]*entity.Entity // playerID -> 英雄

	pending  []Command
	rejected []*CommandError

	// 当前波次
	waveActive bool
	toSpawn    int
	spawnTimer float64

	bossSpawned bool
	bossID      string

	beansSpawned  int
	beansDefeated int
	result        *Result

	verbose bool
}

// New 创建战斗管理器
func New(provider config.Provider, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		rng:      rng.New(0),
		registry: entity.NewRegistry(),
		players:  make(map[string]*entity.Entity),
		state:    StatePrepare,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	m.skills = combat.NewSkillManager(m, m.rng, m.bus)
	m.skills.SetVerbose(m.verbose)
	return m
}

// SetVerbose 设置是否输出调试日志
func (m *Manager) SetVerbose(verbose bool) {
	m.verbose = verbose
	m.skills.SetVerbose(verbose)
	if m.waves != nil {
		m.waves.SetVerbose(verbose)
	}
}

// Entities 实现 combat.World：按创建顺序返回全部单位
func (m *Manager) Entities() []*entity.Entity { return m.registry.All() }

// Lookup 实现 combat.World
func (m *Manager) Lookup(id string) (*entity.Entity, bool) { return m.registry.Get(id) }

// Crystal 实现 combat.World
func (m *Manager) Crystal() *entity.Entity { return m.crystal }

// InitBattle 初始化战斗会话
//
// 解析关卡和全部英雄、技能、道具配置；任何一项缺失都会中止初始化
// （错误包装 config.ErrNotFound）。成功后状态为 prepare。
//
// 参数：
//   - params: 水晶、玩家、关卡
//   - seed: 随机种子，相同种子和指令序列得到完全相同的战斗
func (m *Manager) InitBattle(params InitParams, seed int64) error {
	level, err := m.provider.GetLevel(params.Level.ID())
	if err != nil {
		return fmt.Errorf("init battle: %w", err)
	}
	if len(params.Players) == 0 {
		return fmt.Errorf("init battle: at least one player is required")
	}

	roster := make([]heroRoster, 0, len(params.Players))
	seen := make(map[string]bool)
	for _, p := range params.Players {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("init battle: invalid or duplicate player id %q", p.ID)
		}
		seen[p.ID] = true

		r, err := m.resolveHero(p)
		if err != nil {
			return fmt.Errorf("init battle: player %s: %w", p.ID, err)
		}
		roster = append(roster, r)
	}

	m.params = params
	m.seed = seed
	m.level = level
	m.roster = roster
	m.waves = wave.NewManager(m.provider, level, m.rng, m.bus, m.registry.NextID)
	m.waves.SetVerbose(m.verbose)
	m.resetSession()

	log.Printf("[BattleManager] Initialized level %s with %d players (seed %d)", level.ID, len(roster), seed)
	return nil
}

func (m *Manager) resolveHero(p PlayerParams) (heroRoster, error) {
	cfg, err := m.provider.GetHero(p.Hero.ID)
	if err != nil {
		return heroRoster{}, err
	}

	r := heroRoster{
		playerID: p.ID,
		config:   cfg,
		stats:    cfg.Stats,
		position: p.Hero.Position,
		level:    p.Hero.Level,
		items:    make(map[string]int, len(p.Items)),
	}
	if p.Hero.Stats != nil {
		r.stats = *p.Hero.Stats
	}
	if r.level < 1 {
		r.level = 1
	}

	skillIDs := cfg.Skills
	if len(p.Hero.Skills) > 0 {
		skillIDs = p.Hero.Skills
	}
	for _, id := range skillIDs {
		sk, err := m.provider.GetSkill(id)
		if err != nil {
			return heroRoster{}, err
		}
		r.skills = append(r.skills, sk)
	}

	for id, n := range p.Items {
		if _, err := m.provider.GetItem(id); err != nil {
			return heroRoster{}, err
		}
		r.items[id] = n
	}
	return r, nil
}

// resetSession 清空会话状态并重置随机数源
func (m *Manager) resetSession() {
	m.rng.Seed(m.seed)
	m.registry.Reset()
	m.skills.Reset()
	m.players = make(map[string]*entity.Entity)
	m.crystal = nil
	m.state = StatePrepare
	m.frame = 0
	m.elapsed = 0
	m.pending = nil
	m.rejected = nil
	m.waveActive = false
	m.toSpawn = 0
	m.spawnTimer = 0
	m.bossSpawned = false
	m.bossID = ""
	m.beansSpawned = 0
	m.beansDefeated = 0
	m.result = nil
}

// StartBattle prepare → fighting
//
// 创建水晶和英雄，开始第一波，发布 battle_started
func (m *Manager) StartBattle() error {
	if m.level == nil || m.state != StatePrepare {
		return fmt.Errorf("start battle in state %s: %w", m.state, ErrInvalidState)
	}

	m.registry.Reset()
	m.players = make(map[string]*entity.Entity)

	crystalStats := config.Stats{MaxHP: m.level.Crystal.MaxHP, Defense: m.level.Crystal.Defense}
	if m.params.Crystal.MaxHP > 0 {
		crystalStats.MaxHP = m.params.Crystal.MaxHP
	}
	if m.params.Crystal.Defense > 0 {
		crystalStats.Defense = m.params.Crystal.Defense
	}
	m.crystal = entity.New(CrystalID, entity.KindCrystal, crystalStats)
	if err := m.registry.Add(m.crystal); err != nil {
		return err
	}

	for _, r := range m.roster {
		hero := entity.New(m.registry.NextID("hero"), entity.KindHero, r.stats)
		hero.ConfigID = r.config.ID
		hero.Hero = r.config
		hero.Level = r.level
		hero.Position = r.position
		hero.Items = make(map[string]int, len(r.items))
		for id, n := range r.items {
			hero.Items[id] = n
		}
		for _, sk := range r.skills {
			hero.Skills = append(hero.Skills, entity.NewSkillSlot(sk, sk.Level))
		}
		if err := m.registry.Add(hero); err != nil {
			return err
		}
		m.players[r.playerID] = hero
	}

	m.state = StateFighting
	m.startWave()

	m.bus.Emit(event.BattleStartedEvent{
		LevelID: m.level.ID,
		Seed:    m.seed,
		Heroes:  len(m.roster),
	})
	log.Printf("[BattleManager] Battle started: level %s, %d heroes", m.level.ID, len(m.roster))
	return nil
}

// PauseBattle fighting → pause
func (m *Manager) PauseBattle() error {
	if m.state != StateFighting {
		return fmt.Errorf("pause in state %s: %w", m.state, ErrInvalidState)
	}
	m.state = StatePause
	m.bus.Emit(event.BattlePausedEvent{Elapsed: m.elapsed})
	return nil
}

// ResumeBattle pause → fighting
func (m *Manager) ResumeBattle() error {
	if m.state != StatePause {
		return fmt.Errorf("resume in state %s: %w", m.state, ErrInvalidState)
	}
	m.state = StateFighting
	m.bus.Emit(event.BattleResumedEvent{Elapsed: m.elapsed})
	return nil
}

// Reset 回到 prepare，保留初始化参数和种子，可再次 StartBattle 得到相同的战斗
func (m *Manager) Reset() {
	if m.waves != nil {
		m.waves.Reset()
	}
	m.resetSession()
	log.Printf("[BattleManager] Reset")
}

// HandleDamage 技能管线之外造成伤害的唯一入口
//
// 与技能伤害走同一条 应用 → 死亡判定 → 胜负判定 流程。
// 目标已死亡时是空操作；战斗不在进行中时返回 ErrInvalidState。
func (m *Manager) HandleDamage(kind entity.Kind, id string, amount int) error {
	if m.state != StateFighting {
		return fmt.Errorf("damage in state %s: %w", m.state, ErrInvalidState)
	}
	target, ok := m.registry.Get(id)
	if !ok || target.Kind != kind {
		return fmt.Errorf("%s %q: %w", kind, id, ErrUnknownEntity)
	}
	m.skills.Applier().ApplyDamage(nil, target, amount, false, nil)
	m.checkBattleEnd()
	return nil
}

// GetState 当前状态
func (m *Manager) GetState() State { return m.state }

// GetResult 战斗结果，未结束时返回 nil
func (m *Manager) GetResult() *Result {
	if m.result == nil {
		return nil
	}
	r := *m.result
	return &r
}

// GetEventManager 事件总线
func (m *Manager) GetEventManager() *event.Bus { return m.bus }

// Frame 当前帧号（Update 处理中即为正在处理的帧）
func (m *Manager) Frame() int64 { return m.frame }

// Elapsed 模拟时间（毫秒）
func (m *Manager) Elapsed() float64 { return m.elapsed }

// Seed 本场战斗的随机种子
func (m *Manager) Seed() int64 { return m.seed }

// Params 初始化参数
func (m *Manager) Params() InitParams { return m.params }

// Level 当前关卡配置
func (m *Manager) Level() *config.LevelConfig { return m.level }

// Hero 返回玩家的英雄
func (m *Manager) Hero(playerID string) (*entity.Entity, bool) {
	h, ok := m.players[playerID]
	return h, ok
}

// RejectedCommands 被拒绝的指令（包括乱序提交和执行失败）
func (m *Manager) RejectedCommands() []*CommandError {
	out := make([]*CommandError, len(m.rejected))
	copy(out, m.rejected)
	return out
}

// GetBattleStats 当前英雄、小豆、水晶的状态快照
func (m *Manager) GetBattleStats() BattleStats {
	stats := BattleStats{
		State:         m.state,
		Frame:         m.frame,
		Elapsed:       m.elapsed,
		Heroes:        make([]UnitSnapshot, 0),
		Beans:         make([]UnitSnapshot, 0),
		BeansSpawned:  m.beansSpawned,
		BeansDefeated: m.beansDefeated,
	}
	if m.waves != nil {
		stats.Wave = m.waves.CurrentWave()
	}
	if m.crystal != nil {
		stats.Crystal = snapshot(m.crystal)
	}
	for _, e := range m.registry.All() {
		switch e.Kind {
		case entity.KindHero:
			stats.Heroes = append(stats.Heroes, snapshot(e))
		case entity.KindBean:
			stats.Beans = append(stats.Beans, snapshot(e))
		}
	}
	return stats
}

// SubmitCommand 提交玩家指令
//
// 帧号大于当前帧的指令被缓存，到达对应帧时按帧号顺序执行；
// 帧号不大于当前帧的指令返回 ErrOutOfOrderCommand 并被丢弃。
func (m *Manager) SubmitCommand(cmd Command) error {
	if m.state.IsTerminal() || m.level == nil {
		return &CommandError{Command: cmd, Err: ErrInvalidState}
	}
	if cmd.Frame <= m.frame {
		cerr := &CommandError{
			Command: cmd,
			Err:     fmt.Errorf("%w: frame %d already processed (current %d)", ErrOutOfOrderCommand, cmd.Frame, m.frame),
		}
		m.rejected = append(m.rejected, cerr)
		log.Printf("[BattleManager] WARNING: %v", cerr)
		return cerr
	}

	m.pending = append(m.pending, cmd)
	sort.SliceStable(m.pending, func(i, j int) bool { return m.pending[i].Frame < m.pending[j].Frame })
	return nil
}

// finish 进入终态并发布 game_over（只会发生一次）
func (m *Manager) finish(victory bool, reason string) {
	if m.state.IsTerminal() {
		return
	}
	if victory {
		m.state = StateVictory
	} else {
		m.state = StateDefeat
	}

	heroesAlive := 0
	for _, h := range m.players {
		if h.Alive {
			heroesAlive++
		}
	}
	m.result = &Result{
		Victory:       victory,
		Reason:        reason,
		Elapsed:       m.elapsed,
		Frames:        m.frame,
		Wave:          m.waves.CurrentWave(),
		BeansDefeated: m.beansDefeated,
		CrystalHP:     m.crystal.Stats.HP,
		HeroesAlive:   heroesAlive,
	}

	log.Printf("[BattleManager] Game over: victory=%v reason=%s elapsed=%.0fms", victory, reason, m.elapsed)
	m.bus.Emit(event.GameOverEvent{Victory: victory, Reason: reason})
}

// checkBattleEnd 先判定失败再判定胜利
func (m *Manager) checkBattleEnd() {
	if m.state != StateFighting {
		return
	}

	if !m.crystal.Alive {
		m.finish(false, ReasonCrystalDestroyed)
		return
	}
	if m.level.DefeatCondition.Type == config.DefeatAllHeroesDead && m.allHeroesDead() {
		m.finish(false, ReasonAllHeroesDead)
		return
	}

	switch m.level.VictoryCondition.Type {
	case config.VictoryAllDefeated:
		if m.waves.Exhausted() && m.toSpawn == 0 && m.livingBeans() == 0 {
			m.finish(true, ReasonAllDefeated)
		}
	case config.VictoryTimeSurvived:
		if m.elapsed >= m.level.VictoryCondition.Value {
			m.finish(true, ReasonTimeSurvived)
		}
	case config.VictoryBossDefeated:
		if m.bossSpawned {
			boss, ok := m.registry.Get(m.bossID)
			if !ok || !boss.Alive {
				m.finish(true, ReasonBossDefeated)
			}
		}
	}
}

func (m *Manager) allHeroesDead() bool {
	for _, h := range m.players {
		if h.Alive {
			return false
		}
	}
	return true
}

func (m *Manager) livingBeans() int {
	n := 0
	for _, e := range m.registry.OfKind(entity.KindBean) {
		if e.Alive {
			n++
		}
	}
	return n
}
