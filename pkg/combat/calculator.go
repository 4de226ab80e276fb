package combat

import (
	"math"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
)

// Roller 暴击判定使用的随机数源
type Roller interface {
	Next() float64
}

// lowHealthThreshold 低于该生命比例时治疗效果 ×1.5
const lowHealthThreshold = 0.3

// Calculator 纯数值计算，不修改任何单位
// 给定输入和随机数源的下一次输出，结果完全确定
type Calculator struct {
	rng Roller
}

// NewCalculator 创建数值计算器
func NewCalculator(rng Roller) *Calculator {
	return &Calculator{rng: rng}
}

// DamageResult 伤害计算结果
type DamageResult struct {
	Value    int
	Critical bool
}

// mitigation 防御减伤系数：1 - def/(def+100)
func mitigation(defense float64) float64 {
	if defense <= 0 {
		return 1
	}
	return 1 - defense/(defense+100)
}

// Damage 计算技能伤害
//
// 公式：
//
//	base = baseDamage × (1 + attack/100)
//	damage = base × (1 - defense/(defense+100))
//	暴击：× criticalMultiplier（仅 criticalRate > 0 时才消耗一次随机数）
//	穿透：× (1 + penetration)
//	连锁：× (1 - damageReduction × chainIndex)
//
// 结果向下取整，最少为 1
func (c *Calculator) Damage(source, target *entity.Entity, skill *config.SkillConfig, chainIndex int) DamageResult {
	damage := skill.BaseDamage * (1 + source.Stats.Attack/100)
	damage *= mitigation(target.Stats.Defense)

	critical := false
	if skill.CriticalRate > 0 && c.rng.Next() < skill.CriticalRate {
		critical = true
		damage *= skill.CriticalMultiplier
	}

	if skill.Penetration > 0 {
		damage *= 1 + skill.Penetration
	}

	if skill.ChainEffect != nil && chainIndex > 0 {
		falloff := 1 - skill.ChainEffect.DamageReduction*float64(chainIndex)
		damage *= math.Max(0, falloff)
	}

	return DamageResult{Value: floorMin1(damage), Critical: critical}
}

// Heal 计算治疗量：baseHeal × (1 + attack/150)，目标低血量时 ×1.5
func (c *Calculator) Heal(source, target *entity.Entity, skill *config.SkillConfig) int {
	heal := skill.BaseHeal * (1 + source.Stats.Attack/150)
	if target.HPRatio() < lowHealthThreshold {
		heal *= 1.5
	}
	return floorMin1(heal)
}

// StatModifier 计算 buff/debuff 数值
// buff 按 (1 + attack/200) 缩放，debuff 按 (1 + attack/150) 缩放
func (c *Calculator) StatModifier(source *entity.Entity, skill *config.SkillConfig, debuff bool) int {
	scale := 1 + source.Stats.Attack/200
	if debuff {
		scale = 1 + source.Stats.Attack/150
	}
	return int(math.Floor(skill.EffectValue * scale))
}

// Shield 计算护盾值：shieldValue × (1 + attack/150)
func (c *Calculator) Shield(source *entity.Entity, skill *config.SkillConfig) int {
	return floorMin1(skill.ShieldValue * (1 + source.Stats.Attack/150))
}

// PeriodicDamage 每跳持续伤害：dotDamage × (1 + attack/100)，无视防御
func (c *Calculator) PeriodicDamage(source *entity.Entity, skill *config.SkillConfig) int {
	return floorMin1(skill.DotDamage * (1 + source.Stats.Attack/100))
}

// PeriodicHeal 每跳持续治疗：hotHeal × (1 + attack/150)
func (c *Calculator) PeriodicHeal(source *entity.Entity, skill *config.SkillConfig) int {
	return floorMin1(skill.HotHeal * (1 + source.Stats.Attack/150))
}

// ContactDamage 小豆接触攻击：attack 经过同一条防御曲线减免
func (c *Calculator) ContactDamage(source, target *entity.Entity) int {
	return floorMin1(source.Stats.Attack * mitigation(target.Stats.Defense))
}

func floorMin1(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}
