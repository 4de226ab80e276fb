package entity

import "math"

// EffectType 持续效果类型
type EffectType string

const (
	EffectDot    EffectType = "dot"
	EffectHot    EffectType = "hot"
	EffectBuff   EffectType = "buff"
	EffectDebuff EffectType = "debuff"
	EffectStun   EffectType = "stun"
	EffectSlow   EffectType = "slow"
)

// PeriodicInterval 持续伤害/治疗的结算间隔（毫秒）
const PeriodicInterval = 1000.0

// periodicEpsilon 累加帧长产生的浮点误差容限（毫秒）
const periodicEpsilon = 1e-6

// ActiveEffect 作用在单位身上的效果实例
type ActiveEffect struct {
	Type              EffectType
	Attribute         string  // buff/debuff 作用的属性
	Value             float64 // buff/debuff 增减量、slow 比例、dot/hot 每跳数值
	RemainingDuration float64 // 剩余时长（毫秒）
	SourceSkillID     string
	SourceCasterID    string

	elapsed   float64 // 已生效时长
	ticksPaid int     // 已结算的跳数
}

// PeriodicTick 一次待结算的持续伤害或治疗
type PeriodicTick struct {
	Effect *ActiveEffect
	Count  int
}

// AddEffect 添加效果并立即生效
func (e *Entity) AddEffect(eff *ActiveEffect) {
	e.ActiveEffects = append(e.ActiveEffects, eff)
	e.RecalculateStats()
}

// RefreshEffect 同一来源技能的同类效果已存在时刷新数值和时长，否则添加
// 返回 true 表示刷新了已有效果
func (e *Entity) RefreshEffect(eff *ActiveEffect) bool {
	for _, cur := range e.ActiveEffects {
		if cur.Type == eff.Type && cur.Attribute == eff.Attribute &&
			cur.SourceSkillID == eff.SourceSkillID && cur.SourceCasterID == eff.SourceCasterID {
			cur.Value = eff.Value
			if eff.RemainingDuration > cur.RemainingDuration {
				cur.RemainingDuration = eff.RemainingDuration
			}
			e.RecalculateStats()
			return true
		}
	}
	e.AddEffect(eff)
	return false
}

// AdvanceEffects 推进所有效果的剩余时长
//
// 先移除到期效果并还原属性，再返回本帧应结算的持续伤害/治疗次数，
// 保证同一帧的伤害计算不会使用已过期的属性修正。
//
// 返回：
//   - expired: 本帧到期并已移除的效果
//   - ticks: 本帧需要结算的 dot/hot（包括在本帧到期前最后一跳）
func (e *Entity) AdvanceEffects(dt float64) (expired []*ActiveEffect, ticks []PeriodicTick) {
	if len(e.ActiveEffects) == 0 {
		return nil, nil
	}

	kept := e.ActiveEffects[:0]
	for _, eff := range e.ActiveEffects {
		step := dt
		if step > eff.RemainingDuration {
			step = eff.RemainingDuration
		}
		eff.RemainingDuration -= dt

		if eff.Type == EffectDot || eff.Type == EffectHot {
			// 跳数由累计时长推出，与帧长无关
			eff.elapsed += step
			due := int(math.Floor((eff.elapsed + periodicEpsilon) / PeriodicInterval))
			count := due - eff.ticksPaid
			if count > 0 {
				eff.ticksPaid = due
				ticks = append(ticks, PeriodicTick{Effect: eff, Count: count})
			}
		}

		if eff.RemainingDuration <= periodicEpsilon {
			eff.RemainingDuration = 0
			expired = append(expired, eff)
			continue
		}
		kept = append(kept, eff)
	}
	// 清理尾部引用
	for i := len(kept); i < len(e.ActiveEffects); i++ {
		e.ActiveEffects[i] = nil
	}
	e.ActiveEffects = kept

	if len(expired) > 0 {
		e.RecalculateStats()
	}
	return expired, ticks
}

// RecalculateStats 由基础属性和生效中的效果重新计算运行时属性
//
// 加减类修正先累加，减速按乘法叠加；生命、法力、护盾是消耗型数值，保持不变。
// 效果全部移除后结果与基础属性完全一致。
func (e *Entity) RecalculateStats() {
	hp, mp := e.Stats.HP, e.Stats.MP
	s := e.Base

	for _, eff := range e.ActiveEffects {
		switch eff.Type {
		case EffectBuff:
			s.Add(eff.Attribute, eff.Value)
		case EffectDebuff:
			s.Add(eff.Attribute, -eff.Value)
		}
	}
	for _, eff := range e.ActiveEffects {
		if eff.Type == EffectSlow {
			s.Speed *= 1 - eff.Value
		}
	}

	if s.Attack < 0 {
		s.Attack = 0
	}
	if s.Defense < 0 {
		s.Defense = 0
	}
	if s.Speed < 0 {
		s.Speed = 0
	}
	if s.MagicAttack < 0 {
		s.MagicAttack = 0
	}
	if s.MagicDefense < 0 {
		s.MagicDefense = 0
	}

	s.HP = hp
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	s.MP = mp
	e.Stats = s
}
