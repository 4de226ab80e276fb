package config

// SkillType 技能类型
type SkillType string

const (
	SkillDamage  SkillType = "damage"
	SkillHeal    SkillType = "heal"
	SkillBuff    SkillType = "buff"
	SkillDebuff  SkillType = "debuff"
	SkillControl SkillType = "control"
	SkillSummon  SkillType = "summon"
)

// TargetType 技能目标类型
type TargetType string

const (
	TargetSingle   TargetType = "single"
	TargetArea     TargetType = "area"
	TargetSelf     TargetType = "self"
	TargetAlly     TargetType = "ally"
	TargetAllEnemy TargetType = "all_enemy"
)

// 召唤单位种类
const (
	SummonBean = "bean"
	SummonHero = "hero"
)

// ChainEffect 连锁效果：多目标时按命中顺序衰减伤害
type ChainEffect struct {
	MaxTargets      int     `yaml:"maxTargets" json:"maxTargets"`
	DamageReduction float64 `yaml:"damageReduction" json:"damageReduction"` // 每跳衰减比例，(0,1)
}

// SummonConfig 召唤配置
type SummonConfig struct {
	Unit  string `yaml:"unit" json:"unit"`   // "bean" 或 "hero"
	ID    string `yaml:"id" json:"id"`       // 被召唤单位的配置ID
	Count int    `yaml:"count" json:"count"` // 数量，默认 1
}

// SkillUpgrade 单个等级的升级覆盖项
// 非 nil 字段覆盖基础配置中的同名数值
type SkillUpgrade struct {
	Level                int      `yaml:"level"`
	Cooldown             *float64 `yaml:"cooldown"`
	Range                *float64 `yaml:"range"`
	BaseDamage           *float64 `yaml:"baseDamage"`
	BaseHeal             *float64 `yaml:"baseHeal"`
	Duration             *float64 `yaml:"duration"`
	CriticalRate         *float64 `yaml:"criticalRate"`
	CriticalMultiplier   *float64 `yaml:"criticalMultiplier"`
	Penetration          *float64 `yaml:"penetration"`
	EffectValue          *float64 `yaml:"effectValue"`
	SlowValue            *float64 `yaml:"slowValue"`
	StunDuration         *float64 `yaml:"stunDuration"`
	ShieldValue          *float64 `yaml:"shieldValue"`
	DotDamage            *float64 `yaml:"dotDamage"`
	HotHeal              *float64 `yaml:"hotHeal"`
	LifeSteal            *float64 `yaml:"lifeSteal"`
	ChainMaxTargets      *int     `yaml:"chainMaxTargets"`
	ChainDamageReduction *float64 `yaml:"chainDamageReduction"`
}

// SkillConfig 技能配置（不可变）
// 时间单位统一为毫秒（模拟时间）
type SkillConfig struct {
	ID                 string         `yaml:"id"`
	Name               string         `yaml:"name"`
	Type               SkillType      `yaml:"type"`
	TargetType         TargetType     `yaml:"targetType"`
	Cooldown           float64        `yaml:"cooldown"` // 毫秒
	Range              float64        `yaml:"range"`    // 0 表示不限距离
	BaseDamage         float64        `yaml:"baseDamage"`
	BaseHeal           float64        `yaml:"baseHeal"`
	Duration           float64        `yaml:"duration"` // 持续效果时长（毫秒）
	CriticalRate       float64        `yaml:"criticalRate"`
	CriticalMultiplier float64        `yaml:"criticalMultiplier"`
	Penetration        float64        `yaml:"penetration"`
	Level              int            `yaml:"level"`
	MaxLevel           int            `yaml:"maxLevel"`
	ChainEffect        *ChainEffect   `yaml:"chainEffect"`
	Upgrades           []SkillUpgrade `yaml:"upgrades"`

	EffectValue  float64       `yaml:"effectValue"`  // buff/debuff 原始数值
	Attribute    string        `yaml:"attribute"`    // buff/debuff 作用的属性
	SlowValue    float64       `yaml:"slowValue"`    // 减速比例 (0,1)
	StunDuration float64       `yaml:"stunDuration"` // 眩晕时长（毫秒），0 时使用 Duration
	ShieldValue  float64       `yaml:"shieldValue"`
	DotDamage    float64       `yaml:"dotDamage"` // 每秒持续伤害
	HotHeal      float64       `yaml:"hotHeal"`   // 每秒持续治疗
	LifeSteal    float64       `yaml:"lifeSteal"` // 吸血比例
	Summon       *SummonConfig `yaml:"summon"`
	Manual       bool          `yaml:"manual"` // 仅能通过玩家指令释放，不自动施放
}

// AtLevel 返回指定等级下的技能配置副本
// 从 2 级开始依次叠加 upgrades 中 level <= n 的覆盖项
func (s *SkillConfig) AtLevel(n int) *SkillConfig {
	out := *s
	if n < s.Level {
		n = s.Level
	}
	if s.MaxLevel > 0 && n > s.MaxLevel {
		n = s.MaxLevel
	}
	out.Level = n
	if s.ChainEffect != nil {
		chain := *s.ChainEffect
		out.ChainEffect = &chain
	}

	for _, up := range s.Upgrades {
		if up.Level > n {
			break
		}
		override(&out.Cooldown, up.Cooldown)
		override(&out.Range, up.Range)
		override(&out.BaseDamage, up.BaseDamage)
		override(&out.BaseHeal, up.BaseHeal)
		override(&out.Duration, up.Duration)
		override(&out.CriticalRate, up.CriticalRate)
		override(&out.CriticalMultiplier, up.CriticalMultiplier)
		override(&out.Penetration, up.Penetration)
		override(&out.EffectValue, up.EffectValue)
		override(&out.SlowValue, up.SlowValue)
		override(&out.StunDuration, up.StunDuration)
		override(&out.ShieldValue, up.ShieldValue)
		override(&out.DotDamage, up.DotDamage)
		override(&out.HotHeal, up.HotHeal)
		override(&out.LifeSteal, up.LifeSteal)
		if out.ChainEffect != nil {
			if up.ChainMaxTargets != nil {
				out.ChainEffect.MaxTargets = *up.ChainMaxTargets
			}
			override(&out.ChainEffect.DamageReduction, up.ChainDamageReduction)
		}
	}
	return &out
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// ControlDuration 返回眩晕时长，未单独配置时回退到 Duration
func (s *SkillConfig) ControlDuration() float64 {
	if s.StunDuration > 0 {
		return s.StunDuration
	}
	return s.Duration
}
