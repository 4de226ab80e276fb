package config

import (
	"fmt"
	"math"
)

func applySkillDefaults(s *SkillConfig) {
	if s.Level == 0 {
		s.Level = 1
	}
	if s.MaxLevel == 0 {
		s.MaxLevel = s.Level + len(s.Upgrades)
	}
	if s.CriticalMultiplier == 0 {
		s.CriticalMultiplier = 1.5
	}
	if s.Summon != nil {
		if s.Summon.Count == 0 {
			s.Summon.Count = 1
		}
		if s.Summon.Unit == "" {
			s.Summon.Unit = SummonBean
		}
	}
}

func applyHeroDefaults(h *HeroConfig) {
	if h.ExpPerLevel == 0 {
		h.ExpPerLevel = 100
	}
	if h.Stats.HP == 0 {
		h.Stats.HP = h.Stats.MaxHP
	}
}

func applyBeanDefaults(b *BeanConfig) {
	if b.UnlockWave == 0 {
		b.UnlockWave = 1
	}
	if b.TargetPriority == "" {
		b.TargetPriority = PriorityCrystal
	}
	if b.AttackInterval == 0 {
		b.AttackInterval = 1000
	}
	if b.Stats.HP == 0 {
		b.Stats.HP = b.Stats.MaxHP
	}
}

// validateSkill 校验技能配置
// 数值在加载时校验一次，运行时不再做防御性检查
func validateSkill(s *SkillConfig) error {
	if s.ID == "" {
		return fmt.Errorf("skill id is required")
	}

	switch s.Type {
	case SkillDamage, SkillHeal, SkillBuff, SkillDebuff, SkillControl, SkillSummon:
	default:
		return fmt.Errorf("skill %s: unknown type %q", s.ID, s.Type)
	}

	switch s.TargetType {
	case TargetSingle, TargetArea, TargetSelf, TargetAlly, TargetAllEnemy:
	default:
		return fmt.Errorf("skill %s: unknown targetType %q", s.ID, s.TargetType)
	}

	numbers := []struct {
		name  string
		value float64
	}{
		{"cooldown", s.Cooldown},
		{"range", s.Range},
		{"baseDamage", s.BaseDamage},
		{"baseHeal", s.BaseHeal},
		{"duration", s.Duration},
		{"criticalRate", s.CriticalRate},
		{"criticalMultiplier", s.CriticalMultiplier},
		{"penetration", s.Penetration},
		{"effectValue", s.EffectValue},
		{"slowValue", s.SlowValue},
		{"stunDuration", s.StunDuration},
		{"shieldValue", s.ShieldValue},
		{"dotDamage", s.DotDamage},
		{"hotHeal", s.HotHeal},
		{"lifeSteal", s.LifeSteal},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) || n.value < 0 {
			return fmt.Errorf("skill %s: %s must be a finite non-negative number, got %v", s.ID, n.name, n.value)
		}
	}

	if s.CriticalRate > 1 {
		return fmt.Errorf("skill %s: criticalRate must be <= 1, got %v", s.ID, s.CriticalRate)
	}
	if s.SlowValue >= 1 {
		return fmt.Errorf("skill %s: slowValue must be < 1, got %v", s.ID, s.SlowValue)
	}
	if s.Type == SkillBuff || s.Type == SkillDebuff {
		if !IsModifiableAttribute(s.Attribute) {
			return fmt.Errorf("skill %s: attribute %q cannot be modified", s.ID, s.Attribute)
		}
	}
	if (s.Type == SkillBuff || s.Type == SkillDebuff || s.SlowValue > 0 || s.DotDamage > 0 || s.HotHeal > 0) && s.Duration <= 0 {
		return fmt.Errorf("skill %s: timed effects require a positive duration", s.ID)
	}
	if s.Type == SkillControl && s.SlowValue == 0 && s.ControlDuration() <= 0 {
		return fmt.Errorf("skill %s: control skill requires stunDuration or duration", s.ID)
	}
	if s.Type == SkillSummon && s.Summon == nil {
		return fmt.Errorf("skill %s: summon skill requires summon config", s.ID)
	}
	if s.Summon != nil {
		if s.Summon.Unit != SummonBean && s.Summon.Unit != SummonHero {
			return fmt.Errorf("skill %s: summon unit must be bean or hero, got %q", s.ID, s.Summon.Unit)
		}
		if s.Summon.Count < 1 {
			return fmt.Errorf("skill %s: summon count must be at least 1, got %d", s.ID, s.Summon.Count)
		}
	}

	if s.MaxLevel < s.Level {
		return fmt.Errorf("skill %s: maxLevel (%d) must be >= level (%d)", s.ID, s.MaxLevel, s.Level)
	}
	for i, up := range s.Upgrades {
		if up.Level != i+2 {
			return fmt.Errorf("skill %s: upgrades[%d].level must be %d, got %d", s.ID, i, i+2, up.Level)
		}
	}

	if s.ChainEffect != nil {
		if err := validateChain(s.ID, s.ChainEffect.MaxTargets, s.ChainEffect.DamageReduction); err != nil {
			return err
		}
		// 升级后的连锁参数同样需要合法
		for _, up := range s.Upgrades {
			chain := s.AtLevel(up.Level).ChainEffect
			if err := validateChain(s.ID, chain.MaxTargets, chain.DamageReduction); err != nil {
				return fmt.Errorf("level %d: %w", up.Level, err)
			}
		}
	}

	return nil
}

func validateChain(id string, maxTargets int, reduction float64) error {
	if reduction <= 0 || reduction >= 1 {
		return fmt.Errorf("skill %s: chainEffect.damageReduction must be in (0,1), got %v", id, reduction)
	}
	if maxTargets < 2 {
		return fmt.Errorf("skill %s: chainEffect.maxTargets must be >= 2, got %d", id, maxTargets)
	}
	return nil
}

func validateStats(owner string, s Stats) error {
	values := []float64{s.HP, s.MaxHP, s.Attack, s.Defense, s.Speed, s.MP, s.MaxMP, s.MagicAttack, s.MagicDefense}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s: stats must be finite non-negative numbers, got %+v", owner, s)
		}
	}
	if s.MaxHP <= 0 {
		return fmt.Errorf("%s: maxHp must be positive", owner)
	}
	if s.HP > s.MaxHP {
		return fmt.Errorf("%s: hp (%v) exceeds maxHp (%v)", owner, s.HP, s.MaxHP)
	}
	return nil
}

func validateHero(h *HeroConfig, skills map[string]*SkillConfig) error {
	if h.ID == "" {
		return fmt.Errorf("hero id is required")
	}
	if err := validateStats("hero "+h.ID, h.Stats); err != nil {
		return err
	}
	for _, id := range h.Skills {
		if _, ok := skills[id]; !ok {
			return fmt.Errorf("hero %s: unknown skill %q", h.ID, id)
		}
	}
	if h.ExpPerLevel < 1 {
		return fmt.Errorf("hero %s: expPerLevel must be at least 1", h.ID)
	}
	return nil
}

func validateBean(b *BeanConfig, skills map[string]*SkillConfig) error {
	if b.ID == "" {
		return fmt.Errorf("bean id is required")
	}
	if err := validateStats("bean "+b.ID, b.Stats); err != nil {
		return err
	}
	if b.Skill != "" {
		if _, ok := skills[b.Skill]; !ok {
			return fmt.Errorf("bean %s: unknown skill %q", b.ID, b.Skill)
		}
	}
	if b.TargetPriority != PriorityCrystal && b.TargetPriority != PriorityIntercept {
		return fmt.Errorf("bean %s: targetPriority must be crystal or intercept, got %q", b.ID, b.TargetPriority)
	}
	if b.UnlockWave < 1 {
		return fmt.Errorf("bean %s: unlockWave must be at least 1", b.ID)
	}
	if b.InterceptRange < 0 || b.StopDistance < 0 || b.AttackInterval <= 0 {
		return fmt.Errorf("bean %s: interceptRange/stopDistance must be >= 0 and attackInterval > 0", b.ID)
	}
	return nil
}

func validateLevel(l *LevelConfig, beans map[string]*BeanConfig) error {
	if l.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if l.Crystal.MaxHP <= 0 {
		return fmt.Errorf("level %s: crystal.maxHp must be positive", l.ID)
	}
	if l.TotalBeans < 0 || l.MaxWaves < 0 {
		return fmt.Errorf("level %s: totalBeans and maxWaves cannot be negative", l.ID)
	}
	if l.SpawnInterval < 0 || l.SpawnDistance < 0 {
		return fmt.Errorf("level %s: spawnInterval and spawnDistance cannot be negative", l.ID)
	}
	if l.SpawnMode != SpawnUniform && l.SpawnMode != SpawnWeighted {
		return fmt.Errorf("level %s: spawnMode must be uniform or weighted, got %q", l.ID, l.SpawnMode)
	}

	for i, r := range l.BeanRatios {
		if _, ok := beans[r.Type]; !ok {
			return fmt.Errorf("level %s: beanRatios[%d]: unknown bean type %q", l.ID, i, r.Type)
		}
		if r.Weight < 0 {
			return fmt.Errorf("level %s: beanRatios[%d]: weight cannot be negative", l.ID, i)
		}
		f := r.AttrFactors
		if f.HP < 0 || f.Attack < 0 || f.Defense < 0 || f.Speed < 0 {
			return fmt.Errorf("level %s: beanRatios[%d]: attrFactors cannot be negative", l.ID, i)
		}
	}

	switch l.VictoryCondition.Type {
	case VictoryAllDefeated:
		if l.TotalBeans == 0 {
			return fmt.Errorf("level %s: allDefeated requires totalBeans > 0", l.ID)
		}
	case VictoryTimeSurvived:
		if l.VictoryCondition.Value <= 0 {
			return fmt.Errorf("level %s: timeSurvived requires a positive value", l.ID)
		}
	case VictoryBossDefeated:
		boss, ok := beans[l.VictoryCondition.Boss]
		if !ok {
			return fmt.Errorf("level %s: unknown boss bean %q", l.ID, l.VictoryCondition.Boss)
		}
		if !boss.Boss {
			return fmt.Errorf("level %s: bean %q is not marked as boss", l.ID, boss.ID)
		}
		if l.TotalBeans == 0 {
			return fmt.Errorf("level %s: bossDefeated requires totalBeans > 0", l.ID)
		}
	default:
		return fmt.Errorf("level %s: unknown victoryCondition type %q", l.ID, l.VictoryCondition.Type)
	}

	switch l.DefeatCondition.Type {
	case DefeatCrystalDestroyed, DefeatAllHeroesDead:
	default:
		return fmt.Errorf("level %s: unknown defeatCondition type %q", l.ID, l.DefeatCondition.Type)
	}

	return nil
}
