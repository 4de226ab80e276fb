package combat

import (
	"log"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

// ComboWindow 连击判定窗口（毫秒）：两次施法间隔不超过该值视为连击
const ComboWindow = 1500.0

type comboState struct {
	count    int
	lastCast float64
}

// CastResult 一次施法的结果
type CastResult struct {
	Cast    bool // false 表示技能不可用，本次调用是空操作
	Targets []*entity.Entity
	Effects []event.EffectSummary
	Summons []SummonRequest
}

// SkillManager 技能管理器
//
// 职责：
//   - 管理每个单位每个技能的冷却（AVAILABLE ⇄ COOLING_DOWN）
//   - 施法：选目标 → 计算 → 应用 → 进入冷却 → 发布 skill_cast，作为一个整体完成
//   - 每帧推进冷却和持续效果，到期效果在持续伤害/治疗结算前移除
//   - 连击计数
type SkillManager struct {
	world    World
	selector *TargetSelector
	calc     *Calculator
	applier  *Applier
	bus      *event.Bus

	elapsed float64
	combos  map[string]*comboState

	// verbose 是否输出调试日志（技能不可用等）
	verbose bool
}

// NewSkillManager 创建技能管理器
//
// 参数：
//   - world: 战场视图
//   - rng: 暴击判定使用的随机数源（与战斗会话共享）
//   - bus: 事件总线
func NewSkillManager(world World, rng Roller, bus *event.Bus) *SkillManager {
	return &SkillManager{
		world:    world,
		selector: NewTargetSelector(world),
		calc:     NewCalculator(rng),
		applier:  NewApplier(bus),
		bus:      bus,
		combos:   make(map[string]*comboState),
	}
}

// SetVerbose 设置是否输出调试日志
func (m *SkillManager) SetVerbose(verbose bool) {
	m.verbose = verbose
}

// Selector 返回目标选择器
func (m *SkillManager) Selector() *TargetSelector { return m.selector }

// Calculator 返回数值计算器
func (m *SkillManager) Calculator() *Calculator { return m.calc }

// Applier 返回效果应用器
func (m *SkillManager) Applier() *Applier { return m.applier }

// Reset 清空连击状态和内部时钟
func (m *SkillManager) Reset() {
	m.elapsed = 0
	m.combos = make(map[string]*comboState)
}

// Cast 释放技能
//
// 技能冷却中时不做任何事（仅在 verbose 模式下记录日志）。
// targets 为 nil 时由目标选择器解析；解析结果为空时技能照常进入冷却。
func (m *SkillManager) Cast(source *entity.Entity, slot *entity.SkillSlot, targets []*entity.Entity) CastResult {
	if slot == nil || !source.Alive {
		return CastResult{}
	}
	if !slot.IsAvailable() {
		if m.verbose {
			log.Printf("[SkillManager] %s: skill %s unavailable (cooldown %.0fms)", source.ID, slot.Config.ID, slot.CurrentCooldown)
		}
		return CastResult{}
	}
	if source.IsStunned() {
		if m.verbose {
			log.Printf("[SkillManager] %s: stunned, cannot cast %s", source.ID, slot.Config.ID)
		}
		return CastResult{}
	}

	result := m.resolve(source, slot.Config, targets)
	slot.StartCooldown()
	m.finish(source, slot.Config, result, false)
	return result
}

// CastFree 不经过冷却直接结算技能（道具使用）
func (m *SkillManager) CastFree(source *entity.Entity, skill *config.SkillConfig, targets []*entity.Entity) CastResult {
	if !source.Alive {
		return CastResult{}
	}
	result := m.resolve(source, skill, targets)
	m.finish(source, skill, result, true)
	return result
}

// resolve 目标解析 → 构建效果 → 计算 → 应用
func (m *SkillManager) resolve(source *entity.Entity, skill *config.SkillConfig, targets []*entity.Entity) CastResult {
	if targets == nil {
		targets = m.selector.SelectTargets(source, skill)
	} else {
		living := make([]*entity.Entity, 0, len(targets))
		for _, t := range targets {
			if t != nil && t.Alive {
				living = append(living, t)
			}
		}
		targets = living
	}

	exec := Execution{
		Source:  source,
		Targets: targets,
		Skill:   skill,
		Effects: m.BuildEffects(source, targets, skill),
	}
	applied := m.applier.Apply(exec)
	return CastResult{Cast: true, Targets: targets, Effects: applied.Summaries, Summons: applied.Summons}
}

// finish 连击计数并发布 skill_cast
func (m *SkillManager) finish(source *entity.Entity, skill *config.SkillConfig, result CastResult, free bool) {
	ids := make([]string, len(result.Targets))
	for i, t := range result.Targets {
		ids[i] = t.ID
	}
	summaries := result.Effects
	if summaries == nil {
		summaries = []event.EffectSummary{}
	}

	m.bus.Emit(event.SkillCastEvent{
		Source:  source.ID,
		SkillID: skill.ID,
		Level:   skill.Level,
		Targets: ids,
		Effects: summaries,
		Free:    free,
	})

	if source.Kind == entity.KindHero {
		m.trackCombo(source.ID)
	}
}

func (m *SkillManager) trackCombo(sourceID string) {
	st, ok := m.combos[sourceID]
	if !ok {
		st = &comboState{}
		m.combos[sourceID] = st
	}
	if st.count > 0 && m.elapsed-st.lastCast <= ComboWindow {
		st.count++
	} else {
		st.count = 1
	}
	st.lastCast = m.elapsed

	if st.count >= 2 {
		m.bus.Emit(event.ComboTriggeredEvent{Source: sourceID, Count: st.count})
	}
}

// ComboCount 返回单位当前连击数
func (m *SkillManager) ComboCount(sourceID string) int {
	if st, ok := m.combos[sourceID]; ok {
		return st.count
	}
	return 0
}

// effectKinds 根据技能配置列出它会产生的效果，顺序固定
func effectKinds(skill *config.SkillConfig) []EffectKind {
	var kinds []EffectKind
	if skill.BaseDamage > 0 {
		kinds = append(kinds, EffectDamage)
	}
	if skill.BaseHeal > 0 {
		kinds = append(kinds, EffectHeal)
	}
	if skill.ShieldValue > 0 {
		kinds = append(kinds, EffectShield)
	}
	switch skill.Type {
	case config.SkillBuff:
		kinds = append(kinds, EffectBuff)
	case config.SkillDebuff:
		kinds = append(kinds, EffectDebuff)
	}
	if skill.StunDuration > 0 || (skill.Type == config.SkillControl && skill.SlowValue == 0) {
		kinds = append(kinds, EffectStun)
	}
	if skill.SlowValue > 0 {
		kinds = append(kinds, EffectSlow)
	}
	if skill.DotDamage > 0 {
		kinds = append(kinds, EffectDot)
	}
	if skill.HotHeal > 0 {
		kinds = append(kinds, EffectHot)
	}
	if skill.Type == config.SkillSummon && skill.Summon != nil {
		kinds = append(kinds, EffectSummon)
	}
	return kinds
}

// BuildEffects 构建效果列表并为每个目标计算数值
// 伤害按目标顺序逐个计算，暴击随机数按同样顺序消耗
func (m *SkillManager) BuildEffects(source *entity.Entity, targets []*entity.Entity, skill *config.SkillConfig) []SkillEffect {
	kinds := effectKinds(skill)
	effects := make([]SkillEffect, 0, len(kinds))

	for _, k := range kinds {
		eff := SkillEffect{Kind: k, Duration: skill.Duration, Values: make([]EffectValue, len(targets))}
		for i, t := range targets {
			var v EffectValue
			switch k {
			case EffectDamage:
				r := m.calc.Damage(source, t, skill, i)
				v = EffectValue{Amount: float64(r.Value), Critical: r.Critical}
			case EffectHeal:
				v.Amount = float64(m.calc.Heal(source, t, skill))
			case EffectShield:
				v.Amount = float64(m.calc.Shield(source, skill))
			case EffectBuff:
				v.Amount = float64(m.calc.StatModifier(source, skill, false))
			case EffectDebuff:
				v.Amount = float64(m.calc.StatModifier(source, skill, true))
			case EffectSlow:
				v.Amount = skill.SlowValue
			case EffectDot:
				v.Amount = float64(m.calc.PeriodicDamage(source, skill))
			case EffectHot:
				v.Amount = float64(m.calc.PeriodicHeal(source, skill))
			}
			eff.Values[i] = v
		}

		switch k {
		case EffectBuff, EffectDebuff:
			eff.Attribute = skill.Attribute
		case EffectStun:
			eff.Duration = skill.ControlDuration()
		}
		effects = append(effects, eff)
	}
	return effects
}

// Update 每帧维护
//
// 顺序：
//  1. 所有技能冷却递减（截断到 0）
//  2. 所有单位的持续效果计时，到期效果移除并还原属性
//  3. 结算本帧的持续伤害/治疗
func (m *SkillManager) Update(dt float64) {
	m.elapsed += dt

	units := m.world.Entities()
	type pending struct {
		target *entity.Entity
		ticks  []entity.PeriodicTick
	}
	var periodic []pending

	for _, u := range units {
		for _, slot := range u.Skills {
			slot.Tick(dt)
		}
		if !u.Alive {
			continue
		}

		expired, ticks := u.AdvanceEffects(dt)
		for _, eff := range expired {
			m.bus.Emit(event.EffectExpiredEvent{
				Target:    u.ID,
				Effect:    string(eff.Type),
				Attribute: eff.Attribute,
				SkillID:   eff.SourceSkillID,
				Value:     eff.Value,
			})
		}
		if len(ticks) > 0 {
			periodic = append(periodic, pending{target: u, ticks: ticks})
		}
	}

	for _, p := range periodic {
		for _, tick := range p.ticks {
			caster, _ := m.world.Lookup(tick.Effect.SourceCasterID)
			amount := int(tick.Effect.Value) * tick.Count
			switch tick.Effect.Type {
			case entity.EffectDot:
				m.applier.ApplyDamage(caster, p.target, amount, false, &config.SkillConfig{ID: tick.Effect.SourceSkillID})
			case entity.EffectHot:
				m.applier.ApplyHeal(caster, p.target, amount, tick.Effect.SourceSkillID)
			}
		}
	}
}

// AutoCast 按触发条件自动释放单位的技能
//
// 触发规则：
//   - 伤害/减益/控制/召唤：存在射程内的敌方目标
//   - 治疗：目标生命未满
//   - 增益/护盾：场上存在敌人
//
// 标记为 manual 的技能只能通过玩家指令释放。
func (m *SkillManager) AutoCast(source *entity.Entity) []SummonRequest {
	if !source.Alive || source.IsStunned() {
		return nil
	}

	var summons []SummonRequest
	for _, slot := range source.Skills {
		if slot.Config.Manual || !slot.IsAvailable() {
			continue
		}
		targets, ok := m.autoTargets(source, slot.Config)
		if !ok {
			continue
		}
		res := m.Cast(source, slot, targets)
		summons = append(summons, res.Summons...)
		if !source.Alive {
			break
		}
	}
	return summons
}

func (m *SkillManager) autoTargets(source *entity.Entity, skill *config.SkillConfig) ([]*entity.Entity, bool) {
	targets := m.selector.SelectTargets(source, skill)

	switch skill.Type {
	case config.SkillHeal:
		for _, t := range targets {
			if t.HPRatio() < 1 {
				return targets, true
			}
		}
		return nil, false
	case config.SkillBuff:
		return targets, len(targets) > 0 && m.hasEnemies(source)
	case config.SkillSummon:
		return targets, m.enemyInRange(source, skill)
	default:
		if skill.TargetType == config.TargetSelf || skill.TargetType == config.TargetAlly {
			return targets, len(targets) > 0 && m.hasEnemies(source)
		}
		if len(targets) == 0 || !InRange(source, targets[0], skill) {
			return nil, false
		}
		return targets, true
	}
}

func (m *SkillManager) hasEnemies(source *entity.Entity) bool {
	for _, e := range m.world.Entities() {
		if e.Alive && e.IsEnemyOf(source) {
			return true
		}
	}
	return false
}

func (m *SkillManager) enemyInRange(source *entity.Entity, skill *config.SkillConfig) bool {
	for _, e := range m.world.Entities() {
		if e.Alive && e.IsEnemyOf(source) && InRange(source, e, skill) {
			return true
		}
	}
	return false
}
