package combat

import (
	"log"
	"math"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

// EffectKind 技能产生的单项效果
type EffectKind string

const (
	EffectDamage EffectKind = "damage"
	EffectHeal   EffectKind = "heal"
	EffectShield EffectKind = "shield"
	EffectStun   EffectKind = "stun"
	EffectSlow   EffectKind = "slow"
	EffectBuff   EffectKind = "buff"
	EffectDebuff EffectKind = "debuff"
	EffectDot    EffectKind = "dot"
	EffectHot    EffectKind = "hot"
	EffectSummon EffectKind = "summon"
)

// periodicAttribute dot/hot 在 buff/debuff 事件中使用的属性名
const periodicAttribute = "hp"

// EffectValue 针对单个目标计算出的数值
type EffectValue struct {
	Amount   float64
	Critical bool
}

// SkillEffect 一次施法中的单项效果
// Values 与 Execution.Targets 一一对应
type SkillEffect struct {
	Kind      EffectKind
	Attribute string
	Duration  float64
	Values    []EffectValue
}

// Execution 已完成数值计算、等待应用的施法
type Execution struct {
	Source  *entity.Entity
	Targets []*entity.Entity
	Skill   *config.SkillConfig
	Effects []SkillEffect
}

// SummonRequest 召唤请求，由战斗管理器负责生成单位
type SummonRequest struct {
	Source   string
	SkillID  string
	Unit     string
	ConfigID string
	Count    int
	Position entity.Vec2
}

// ApplyResult 应用结果
type ApplyResult struct {
	Summaries []event.EffectSummary
	Summons   []SummonRequest
}

// Applier 根据计算结果修改单位状态并发布事件
//
// 所有伤害（技能、持续伤害、接触攻击）都经过 ApplyDamage，
// 死亡事件每个单位只发布一次。
type Applier struct {
	bus *event.Bus
}

// NewApplier 创建效果应用器
func NewApplier(bus *event.Bus) *Applier {
	return &Applier{bus: bus}
}

// Apply 按 效果 × 目标 的顺序应用一次施法
func (a *Applier) Apply(exec Execution) ApplyResult {
	var result ApplyResult
	skillID := ""
	if exec.Skill != nil {
		skillID = exec.Skill.ID
	}

	for _, eff := range exec.Effects {
		for i, target := range exec.Targets {
			if !target.Alive {
				continue
			}
			var v EffectValue
			if i < len(eff.Values) {
				v = eff.Values[i]
			}

			switch eff.Kind {
			case EffectDamage:
				a.ApplyDamage(exec.Source, target, int(v.Amount), v.Critical, exec.Skill)
			case EffectHeal:
				a.applyHeal(exec.Source, target, v.Amount, skillID)
			case EffectShield:
				target.AddShield(v.Amount)
				a.bus.Emit(event.ShieldAppliedEvent{
					Source: exec.Source.ID, Target: target.ID, SkillID: skillID,
					Value: int(v.Amount), Shield: target.Shield,
				})
			case EffectStun:
				target.RefreshEffect(&entity.ActiveEffect{
					Type:              entity.EffectStun,
					RemainingDuration: eff.Duration,
					SourceSkillID:     skillID,
					SourceCasterID:    exec.Source.ID,
				})
				a.bus.Emit(event.StunAppliedEvent{
					Source: exec.Source.ID, Target: target.ID, SkillID: skillID, Duration: eff.Duration,
				})
			case EffectSlow:
				target.RefreshEffect(&entity.ActiveEffect{
					Type:              entity.EffectSlow,
					Value:             v.Amount,
					RemainingDuration: eff.Duration,
					SourceSkillID:     skillID,
					SourceCasterID:    exec.Source.ID,
				})
				a.bus.Emit(event.SlowAppliedEvent{
					Source: exec.Source.ID, Target: target.ID, SkillID: skillID,
					Value: v.Amount, Duration: eff.Duration, Speed: target.Stats.Speed,
				})
			case EffectBuff, EffectHot:
				a.applyModifier(exec.Source, target, eff, v.Amount, skillID, false)
			case EffectDebuff, EffectDot:
				a.applyModifier(exec.Source, target, eff, v.Amount, skillID, true)
			case EffectSummon:
				if exec.Skill == nil || exec.Skill.Summon == nil {
					continue
				}
				req := SummonRequest{
					Source:   exec.Source.ID,
					SkillID:  skillID,
					Unit:     exec.Skill.Summon.Unit,
					ConfigID: exec.Skill.Summon.ID,
					Count:    exec.Skill.Summon.Count,
					Position: target.Position,
				}
				result.Summons = append(result.Summons, req)
				a.bus.Emit(event.SummonRequestedEvent{
					Source: req.Source, SkillID: req.SkillID, Unit: req.Unit,
					ConfigID: req.ConfigID, Count: req.Count, Position: req.Position,
				})
			default:
				log.Printf("[Applier] WARNING: unknown effect kind %q", eff.Kind)
				continue
			}

			result.Summaries = append(result.Summaries, event.EffectSummary{
				Type:   string(eff.Kind),
				Target: target.ID,
				Value:  v.Amount,
			})
		}
	}
	return result
}

// applyModifier 添加 buff/debuff（以及以 hp 为属性的 hot/dot）
func (a *Applier) applyModifier(source, target *entity.Entity, eff SkillEffect, amount float64, skillID string, negative bool) {
	var typ entity.EffectType
	attr := eff.Attribute
	switch eff.Kind {
	case EffectBuff:
		typ = entity.EffectBuff
	case EffectDebuff:
		typ = entity.EffectDebuff
	case EffectHot:
		typ, attr = entity.EffectHot, periodicAttribute
	case EffectDot:
		typ, attr = entity.EffectDot, periodicAttribute
	}

	target.RefreshEffect(&entity.ActiveEffect{
		Type:              typ,
		Attribute:         attr,
		Value:             amount,
		RemainingDuration: eff.Duration,
		SourceSkillID:     skillID,
		SourceCasterID:    source.ID,
	})

	payload := event.ModifierAppliedEvent{
		Source: source.ID, Target: target.ID, SkillID: skillID,
		Attribute: attr, Value: amount, Duration: eff.Duration,
	}
	if negative {
		a.bus.Emit(event.DebuffAppliedEvent{ModifierAppliedEvent: payload})
	} else {
		a.bus.Emit(event.BuffAppliedEvent{ModifierAppliedEvent: payload})
	}
}

func (a *Applier) applyHeal(source, target *entity.Entity, amount float64, skillID string) {
	target.Heal(amount)
	sourceID := ""
	if source != nil {
		sourceID = source.ID
	}
	a.bus.Emit(event.HealAppliedEvent{
		Source: sourceID, Target: target.ID, SkillID: skillID,
		Value: int(amount), HP: target.Stats.HP,
	})
}

// ApplyHeal 技能管线之外的治疗入口（持续治疗）
func (a *Applier) ApplyHeal(source, target *entity.Entity, amount int, skillID string) {
	if target == nil || !target.Alive || amount <= 0 {
		return
	}
	a.applyHeal(source, target, float64(amount), skillID)
}

// ApplyDamage 唯一的伤害入口
//
// 参数：
//   - source: 伤害来源，可为 nil（外部伤害）
//   - target: 受击单位；已死亡时直接返回
//   - amount: 伤害值
//   - critical: 是否暴击（仅用于事件）
//   - skill: 来源技能，可为 nil；用于吸血和事件中的技能ID
//
// 返回：
//   - entity.DamageOutcome: 护盾吸收量、实际扣血量、是否致死
func (a *Applier) ApplyDamage(source, target *entity.Entity, amount int, critical bool, skill *config.SkillConfig) entity.DamageOutcome {
	if target == nil || !target.Alive || amount <= 0 {
		return entity.DamageOutcome{}
	}

	out := target.TakeDamage(float64(amount))

	sourceID, skillID := "", ""
	if source != nil {
		sourceID = source.ID
	}
	if skill != nil {
		skillID = skill.ID
	}
	a.bus.Emit(event.DamageDealtEvent{
		Source:      sourceID,
		Target:      target.ID,
		SkillID:     skillID,
		Value:       amount,
		Absorbed:    int(out.Absorbed),
		RemainingHP: target.Stats.HP,
		IsCritical:  critical,
	})

	if skill != nil && skill.LifeSteal > 0 && source != nil && source.Alive {
		steal := math.Floor(float64(amount) * skill.LifeSteal)
		if healed := source.Heal(steal); healed > 0 {
			a.bus.Emit(event.HealAppliedEvent{
				Source: source.ID, Target: source.ID, SkillID: skillID,
				Value: int(healed), HP: source.Stats.HP,
			})
		}
	}

	if out.Died {
		a.onDeath(source, target)
	}
	return out
}

// onDeath 发布死亡事件并为击杀者结算经验
// 水晶被摧毁由战斗管理器判定胜负，这里不发事件
func (a *Applier) onDeath(killer, target *entity.Entity) {
	killerID := ""
	if killer != nil {
		killerID = killer.ID
	}

	switch target.Kind {
	case entity.KindHero:
		a.bus.Emit(event.HeroDiedEvent{ID: target.ID, Killer: killerID})
	case entity.KindBean:
		reward := 0
		if target.Bean != nil {
			reward = target.Bean.Reward
		}
		a.bus.Emit(event.BeanDefeatedEvent{
			ID:       target.ID,
			BeanType: target.ConfigID,
			Killer:   killerID,
			Reward:   reward,
			Boss:     target.Boss,
		})
		if killer != nil && killer.Kind == entity.KindHero {
			if killer.GrantExperience(reward) > 0 {
				a.bus.Emit(event.HeroLevelUpEvent{ID: killer.ID, Level: killer.Level})
			}
		}
	}
}
