// Package entity 定义战斗中的单位模型
//
// 英雄、小豆、水晶共用同一个具体的 Entity 记录，以 Kind 区分；
// 受伤、治疗、效果等能力通过组合实现，不依赖继承。
package entity

import (
	"math"

	"github.com/decker502/beanguard/pkg/config"
)

// Kind 单位种类
type Kind string

const (
	KindHero    Kind = "hero"
	KindBean    Kind = "bean"
	KindCrystal Kind = "crystal"
)

// Faction 阵营：英雄和水晶为一方，小豆为另一方
type Faction int

const (
	Defenders Faction = iota
	Attackers
)

// Faction 返回该种类所属阵营
func (k Kind) Faction() Faction {
	if k == KindBean {
		return Attackers
	}
	return Defenders
}

// Vec2 世界坐标（以水晶为原点的中心坐标系）
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo 欧氏距离
func (v Vec2) DistanceTo(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Damageable 可受伤害的单位
type Damageable interface {
	TakeDamage(amount float64) DamageOutcome
	Heal(amount float64) float64
	IsAlive() bool
}

// Targetable 可被技能选为目标的单位
type Targetable interface {
	EntityID() string
	Pos() Vec2
	IsAlive() bool
	Faction() Faction
}

// DamageOutcome 一次伤害结算的结果
type DamageOutcome struct {
	Absorbed float64 // 被护盾吸收的部分
	Dealt    float64 // 实际扣除的生命值
	Died     bool    // 本次伤害导致死亡（每个单位最多出现一次）
}

// Entity 战斗单位
type Entity struct {
	ID       string
	Kind     Kind
	ConfigID string // 英雄/小豆配置ID，水晶为空
	Seq      uint64 // 创建顺序，由 Registry 分配
	Position Vec2

	Base   config.Stats // 不含临时效果的属性（升级会修改）
	Stats  config.Stats // 运行时属性 = Base + 生效中的效果
	Shield float64
	Alive  bool

	ActiveEffects []*ActiveEffect
	Skills        []*SkillSlot // 英雄可有多个；小豆最多一个；水晶没有

	// 英雄
	Level      int
	Experience int
	Hero       *config.HeroConfig
	Items      map[string]int // 道具ID -> 剩余数量

	// 小豆
	Bean        *config.BeanConfig
	Boss        bool
	AttackTimer float64 // 接触攻击冷却（毫秒）
}

// New 以模板属性创建单位，HP 不大于 MaxHP
func New(id string, kind Kind, stats config.Stats) *Entity {
	if stats.HP == 0 || stats.HP > stats.MaxHP {
		stats.HP = stats.MaxHP
	}
	e := &Entity{
		ID:    id,
		Kind:  kind,
		Base:  stats,
		Stats: stats,
		Alive: stats.HP > 0,
	}
	return e
}

// EntityID 实现 Targetable
func (e *Entity) EntityID() string { return e.ID }

// Pos 实现 Targetable
func (e *Entity) Pos() Vec2 { return e.Position }

// IsAlive 实现 Damageable / Targetable
func (e *Entity) IsAlive() bool { return e.Alive }

// Faction 实现 Targetable
func (e *Entity) Faction() Faction { return e.Kind.Faction() }

// IsEnemyOf 是否与另一单位敌对
func (e *Entity) IsEnemyOf(o *Entity) bool {
	return e.Faction() != o.Faction()
}

// HPRatio 当前生命比例
func (e *Entity) HPRatio() float64 {
	if e.Stats.MaxHP <= 0 {
		return 0
	}
	return e.Stats.HP / e.Stats.MaxHP
}

// TakeDamage 扣除生命值，护盾优先吸收
// 已死亡的单位不再受到任何影响
func (e *Entity) TakeDamage(amount float64) DamageOutcome {
	var out DamageOutcome
	if !e.Alive || amount <= 0 {
		return out
	}

	if e.Shield > 0 {
		out.Absorbed = math.Min(e.Shield, amount)
		e.Shield -= out.Absorbed
		amount -= out.Absorbed
	}

	out.Dealt = math.Min(e.Stats.HP, amount)
	e.Stats.HP = math.Max(0, e.Stats.HP-amount)
	if e.Stats.HP == 0 {
		e.Alive = false
		out.Died = true
	}
	return out
}

// Heal 恢复生命值（不超过上限），返回实际恢复量
func (e *Entity) Heal(amount float64) float64 {
	if !e.Alive || amount <= 0 {
		return 0
	}
	before := e.Stats.HP
	e.Stats.HP = math.Min(e.Stats.MaxHP, e.Stats.HP+amount)
	return e.Stats.HP - before
}

// AddShield 增加护盾值
func (e *Entity) AddShield(amount float64) {
	if !e.Alive || amount <= 0 {
		return
	}
	e.Shield += amount
}

// IsStunned 是否处于眩晕中
func (e *Entity) IsStunned() bool {
	for _, eff := range e.ActiveEffects {
		if eff.Type == EffectStun {
			return true
		}
	}
	return false
}

// SkillByID 查找已掌握的技能
func (e *Entity) SkillByID(id string) *SkillSlot {
	for _, s := range e.Skills {
		if s.Base.ID == id {
			return s
		}
	}
	return nil
}

// GrantExperience 增加经验，达到阈值时升级并按成长值提升基础属性
// 返回本次提升的等级数
func (e *Entity) GrantExperience(exp int) int {
	if e.Kind != KindHero || e.Hero == nil || exp <= 0 || !e.Alive {
		return 0
	}
	if e.Level < 1 {
		e.Level = 1
	}
	e.Experience += exp
	levels := 0
	for e.Experience >= e.Level*e.Hero.ExpPerLevel {
		e.Experience -= e.Level * e.Hero.ExpPerLevel
		e.Level++
		levels++

		g := e.Hero.Growth
		e.Base.MaxHP += g.MaxHP
		e.Base.Attack += g.Attack
		e.Base.Defense += g.Defense
		e.Base.Speed += g.Speed
		e.Base.MagicAttack += g.MagicAttack
		e.Base.MagicDefense += g.MagicDefense
		e.Stats.HP += g.MaxHP
	}
	if levels > 0 {
		e.RecalculateStats()
	}
	return levels
}
