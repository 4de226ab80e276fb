package entity

import "github.com/decker502/beanguard/pkg/config"

// SkillState 单个技能的运行状态
type SkillState string

const (
	SkillAvailable   SkillState = "AVAILABLE"
	SkillCoolingDown SkillState = "COOLING_DOWN"
)

// SkillSlot 单位持有的技能及其冷却状态
type SkillSlot struct {
	Base            *config.SkillConfig // 共享的配置记录（只读）
	Config          *config.SkillConfig // 当前等级生效的配置
	Level           int
	CurrentCooldown float64 // 毫秒，>= 0
}

// NewSkillSlot 以指定等级创建技能槽，初始可用
func NewSkillSlot(base *config.SkillConfig, level int) *SkillSlot {
	s := &SkillSlot{Base: base}
	s.SetLevel(level)
	return s
}

// SetLevel 设置技能等级并刷新生效配置
func (s *SkillSlot) SetLevel(level int) {
	s.Config = s.Base.AtLevel(level)
	s.Level = s.Config.Level
}

// CanLevelUp 是否还能升级
func (s *SkillSlot) CanLevelUp() bool {
	return s.Level < s.Base.MaxLevel
}

// IsAvailable 冷却为 0 时可用
func (s *SkillSlot) IsAvailable() bool {
	return s.CurrentCooldown == 0
}

// State 返回技能状态机当前状态
func (s *SkillSlot) State() SkillState {
	if s.IsAvailable() {
		return SkillAvailable
	}
	return SkillCoolingDown
}

// StartCooldown 进入冷却，时长为配置的完整冷却
func (s *SkillSlot) StartCooldown() {
	s.CurrentCooldown = s.Config.Cooldown
}

// Tick 冷却递减并截断到 0，返回本次是否恢复为可用
func (s *SkillSlot) Tick(dt float64) bool {
	if s.CurrentCooldown == 0 {
		return false
	}
	s.CurrentCooldown -= dt
	if s.CurrentCooldown <= 0 {
		s.CurrentCooldown = 0
		return true
	}
	return false
}
