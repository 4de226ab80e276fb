// Package event 定义战斗模拟对外发布的事件及同步事件总线
//
// 每种事件对应一个具体结构体，编译器保证载荷形状；
// Type() 返回的主题名与回放文件中的 type 字段一致。
package event

import "github.com/decker502/beanguard/pkg/entity"

// Type 事件主题
type Type string

const (
	BattleStarted   Type = "battle_started"
	BattlePaused    Type = "battle_paused"
	BattleResumed   Type = "battle_resumed"
	DamageDealt     Type = "damage_dealt"
	HealApplied     Type = "heal_applied"
	ShieldApplied   Type = "shield_applied"
	StunApplied     Type = "stun_applied"
	SlowApplied     Type = "slow_applied"
	BuffApplied     Type = "buff_applied"
	DebuffApplied   Type = "debuff_applied"
	EffectExpired   Type = "effect_expired"
	SkillCast       Type = "skill_cast"
	ComboTriggered  Type = "combo_triggered"
	SummonRequested Type = "summon_requested"
	UnitMoved       Type = "unit_moved"
	HeroDied        Type = "hero_died"
	HeroLevelUp     Type = "hero_level_up"
	BeanDefeated    Type = "bean_defeated"
	SpawnBean       Type = "spawn_bean"
	WaveStart       Type = "wave_start"
	WaveCompleted   Type = "wave_completed"
	WaveReset       Type = "wave_reset"
	CommandRejected Type = "command_rejected"
	GameOver        Type = "game_over"
)

// Event 所有事件的封闭接口，只有本包内的类型可以实现
type Event interface {
	Type() Type
	isEvent()
}

// BattleStartedEvent 战斗开始
type BattleStartedEvent struct {
	LevelID string `json:"levelId"`
	Seed    int64  `json:"seed"`
	Heroes  int    `json:"heroes"`
}

// BattlePausedEvent 战斗暂停
type BattlePausedEvent struct {
	Elapsed float64 `json:"elapsed"`
}

// BattleResumedEvent 战斗恢复
type BattleResumedEvent struct {
	Elapsed float64 `json:"elapsed"`
}

// DamageDealtEvent 造成伤害
type DamageDealtEvent struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	SkillID     string  `json:"skillId,omitempty"`
	Value       int     `json:"value"`
	Absorbed    int     `json:"absorbed,omitempty"`
	RemainingHP float64 `json:"remainingHp"`
	IsCritical  bool    `json:"isCritical"`
}

// HealAppliedEvent 治疗生效
type HealAppliedEvent struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	SkillID string  `json:"skillId,omitempty"`
	Value   int     `json:"value"`
	HP      float64 `json:"hp"`
}

// ShieldAppliedEvent 护盾生效
type ShieldAppliedEvent struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	SkillID string  `json:"skillId,omitempty"`
	Value   int     `json:"value"`
	Shield  float64 `json:"shield"`
}

// StunAppliedEvent 眩晕生效
type StunAppliedEvent struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	SkillID  string  `json:"skillId,omitempty"`
	Duration float64 `json:"duration"`
}

// SlowAppliedEvent 减速生效
type SlowAppliedEvent struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	SkillID  string  `json:"skillId,omitempty"`
	Value    float64 `json:"value"`
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed"`
}

// ModifierAppliedEvent buff/debuff 生效的公共载荷
type ModifierAppliedEvent struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	SkillID   string  `json:"skillId,omitempty"`
	Attribute string  `json:"attribute"`
	Value     float64 `json:"value"`
	Duration  float64 `json:"duration"`
}

// BuffAppliedEvent 增益生效
type BuffAppliedEvent struct{ ModifierAppliedEvent }

// DebuffAppliedEvent 减益生效（持续伤害也通过该事件通知）
type DebuffAppliedEvent struct{ ModifierAppliedEvent }

// EffectExpiredEvent 持续效果到期并已还原
type EffectExpiredEvent struct {
	Target    string  `json:"target"`
	Effect    string  `json:"effect"`
	Attribute string  `json:"attribute,omitempty"`
	SkillID   string  `json:"skillId,omitempty"`
	Value     float64 `json:"value"`
}

// EffectSummary 一次施法中单个效果的数值
type EffectSummary struct {
	Type   string  `json:"type"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// SkillCastEvent 技能释放完成
type SkillCastEvent struct {
	Source  string          `json:"source"`
	SkillID string          `json:"skillId"`
	Level   int             `json:"level"`
	Targets []string        `json:"targets"`
	Effects []EffectSummary `json:"effects"`
	Free    bool            `json:"free,omitempty"` // 道具触发，不进入冷却
}

// ComboTriggeredEvent 连击
type ComboTriggeredEvent struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SummonRequestedEvent 召唤请求
type SummonRequestedEvent struct {
	Source   string      `json:"source"`
	SkillID  string      `json:"skillId"`
	Unit     string      `json:"unit"`
	ConfigID string      `json:"configId"`
	Count    int         `json:"count"`
	Position entity.Vec2 `json:"position"`
}

// UnitMovedEvent 单位移动
type UnitMovedEvent struct {
	ID       string      `json:"id"`
	Position entity.Vec2 `json:"position"`
}

// HeroDiedEvent 英雄阵亡
type HeroDiedEvent struct {
	ID     string `json:"id"`
	Killer string `json:"killer,omitempty"`
}

// HeroLevelUpEvent 英雄升级
type HeroLevelUpEvent struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// BeanDefeatedEvent 小豆被击败
type BeanDefeatedEvent struct {
	ID       string `json:"id"`
	BeanType string `json:"beanType"`
	Killer   string `json:"killer,omitempty"`
	Reward   int    `json:"reward"`
	Boss     bool   `json:"boss,omitempty"`
}

// SpawnBeanEvent 生成小豆
type SpawnBeanEvent struct {
	ID       string      `json:"id"`
	BeanType string      `json:"beanType"`
	Position entity.Vec2 `json:"position"`
	Wave     int         `json:"wave"`
}

// WaveStartEvent 新波次开始
type WaveStartEvent struct {
	Wave          int      `json:"wave"`
	BeanCount     int      `json:"beanCount"`
	SpawnInterval float64  `json:"spawnInterval"`
	Types         []string `json:"types"`
}

// WaveCompletedEvent 当前波次清空
type WaveCompletedEvent struct {
	Wave int `json:"wave"`
}

// WaveResetEvent 波次重置
type WaveResetEvent struct{}

// CommandRejectedEvent 指令被拒绝（乱序或引用了不存在的单位等）
type CommandRejectedEvent struct {
	Frame    int64  `json:"frame"`
	PlayerID string `json:"playerId"`
	Command  string `json:"command"`
	Reason   string `json:"reason"`
}

// GameOverEvent 战斗结束
type GameOverEvent struct {
	Victory bool   `json:"victory"`
	Reason  string `json:"reason"`
}

func (BattleStartedEvent) Type() Type   { return BattleStarted }
func (BattlePausedEvent) Type() Type    { return BattlePaused }
func (BattleResumedEvent) Type() Type   { return BattleResumed }
func (DamageDealtEvent) Type() Type     { return DamageDealt }
func (HealAppliedEvent) Type() Type     { return HealApplied }
func (ShieldAppliedEvent) Type() Type   { return ShieldApplied }
func (StunAppliedEvent) Type() Type     { return StunApplied }
func (SlowAppliedEvent) Type() Type     { return SlowApplied }
func (BuffAppliedEvent) Type() Type     { return BuffApplied }
func (DebuffAppliedEvent) Type() Type   { return DebuffApplied }
func (EffectExpiredEvent) Type() Type   { return EffectExpired }
func (SkillCastEvent) Type() Type       { return SkillCast }
func (ComboTriggeredEvent) Type() Type  { return ComboTriggered }
func (SummonRequestedEvent) Type() Type { return SummonRequested }
func (UnitMovedEvent) Type() Type       { return UnitMoved }
func (HeroDiedEvent) Type() Type        { return HeroDied }
func (HeroLevelUpEvent) Type() Type     { return HeroLevelUp }
func (BeanDefeatedEvent) Type() Type    { return BeanDefeated }
func (SpawnBeanEvent) Type() Type       { return SpawnBean }
func (WaveStartEvent) Type() Type       { return WaveStart }
func (WaveCompletedEvent) Type() Type   { return WaveCompleted }
func (WaveResetEvent) Type() Type       { return WaveReset }
func (CommandRejectedEvent) Type() Type { return CommandRejected }
func (GameOverEvent) Type() Type        { return GameOver }

func (BattleStartedEvent) isEvent()   {}
func (BattlePausedEvent) isEvent()    {}
func (BattleResumedEvent) isEvent()   {}
func (DamageDealtEvent) isEvent()     {}
func (HealAppliedEvent) isEvent()     {}
func (ShieldAppliedEvent) isEvent()   {}
func (StunAppliedEvent) isEvent()     {}
func (SlowAppliedEvent) isEvent()     {}
func (BuffAppliedEvent) isEvent()     {}
func (DebuffAppliedEvent) isEvent()   {}
func (EffectExpiredEvent) isEvent()   {}
func (SkillCastEvent) isEvent()       {}
func (ComboTriggeredEvent) isEvent()  {}
func (SummonRequestedEvent) isEvent() {}
func (UnitMovedEvent) isEvent()       {}
func (HeroDiedEvent) isEvent()        {}
func (HeroLevelUpEvent) isEvent()     {}
func (BeanDefeatedEvent) isEvent()    {}
func (SpawnBeanEvent) isEvent()       {}
func (WaveStartEvent) isEvent()       {}
func (WaveCompletedEvent) isEvent()   {}
func (WaveResetEvent) isEvent()       {}
func (CommandRejectedEvent) isEvent() {}
func (GameOverEvent) isEvent()        {}
