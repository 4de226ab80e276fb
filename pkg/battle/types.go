package battle

import (
	"errors"
	"fmt"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
)

// State 战斗状态机
//
//	prepare → fighting ⇄ pause
//	fighting → victory | defeat（终态）
type State string

const (
	StatePrepare  State = "prepare"
	StateFighting State = "fighting"
	StatePause    State = "pause"
	StateVictory  State = "victory"
	StateDefeat   State = "defeat"
)

// IsTerminal 是否为终态
func (s State) IsTerminal() bool {
	return s == StateVictory || s == StateDefeat
}

var (
	// ErrInvalidState 当前状态不允许该操作
	ErrInvalidState = errors.New("invalid battle state")
	// ErrOutOfOrderCommand 指令帧号早于或等于已处理的帧
	ErrOutOfOrderCommand = errors.New("out of order command")
	// ErrUnknownEntity 指令或伤害引用了不存在的单位
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownSkill 英雄没有掌握该技能
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrSkillMaxLevel 技能已达最高等级
	ErrSkillMaxLevel = errors.New("skill already at max level")
	// ErrNoItem 道具数量不足
	ErrNoItem = errors.New("item not available")
	// ErrInvalidTarget 指定目标的阵营与技能类型不符
	ErrInvalidTarget = errors.New("invalid skill target")
)

// 胜负原因
const (
	ReasonAllDefeated      = "all_defeated"
	ReasonTimeSurvived     = "time_survived"
	ReasonBossDefeated     = "boss_defeated"
	ReasonCrystalDestroyed = "crystal_destroyed"
	ReasonAllHeroesDead    = "all_heroes_dead"
)

// CrystalParams 水晶初始参数，0 值使用关卡配置
type CrystalParams struct {
	MaxHP   float64 `json:"maxHp,omitempty"`
	Defense float64 `json:"defense,omitempty"`
}

// HeroParams 玩家携带的英雄
type HeroParams struct {
	ID       string        `json:"id"`
	Stats    *config.Stats `json:"stats,omitempty"`  // 为空时使用英雄配置
	Skills   []string      `json:"skills,omitempty"` // 为空时使用英雄配置
	Position entity.Vec2   `json:"position"`
	Level    int           `json:"level,omitempty"`
}

// PlayerParams 单个玩家
type PlayerParams struct {
	ID    string         `json:"id"`
	Hero  HeroParams     `json:"hero"`
	Items map[string]int `json:"items,omitempty"`
}

// LevelRef 关卡引用
type LevelRef struct {
	Chapter int `json:"chapter"`
	Stage   int `json:"stage"`
}

// ID 关卡ID，如 "1-1"
func (l LevelRef) ID() string {
	return config.LevelID(l.Chapter, l.Stage)
}

// ParseLevelRef 解析 "章节-关卡" 格式的关卡ID
func ParseLevelRef(id string) (LevelRef, error) {
	var ref LevelRef
	if _, err := fmt.Sscanf(id, "%d-%d", &ref.Chapter, &ref.Stage); err != nil || ref.Chapter < 1 || ref.Stage < 1 {
		return LevelRef{}, fmt.Errorf("invalid level id %q (want chapter-stage, e.g. 1-2)", id)
	}
	return ref, nil
}

// InitParams 战斗初始化参数
type InitParams struct {
	Crystal CrystalParams  `json:"crystal"`
	Players []PlayerParams `json:"players"`
	Level   LevelRef       `json:"level"`
}

// CommandType 玩家指令类型
type CommandType string

const (
	CmdCastSkill      CommandType = "castSkill"
	CmdLearnSkill     CommandType = "learnSkill"
	CmdChangePosition CommandType = "changePosition"
	CmdUseItem        CommandType = "useItem"
)

// CommandData 指令参数，按指令类型使用其中的字段
type CommandData struct {
	SkillID  string  `json:"skillId,omitempty"`
	TargetID string  `json:"targetId,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	ItemID   string  `json:"itemId,omitempty"`
}

// Command 带帧号的玩家指令
// 帧号从 1 开始，对应第一次 Update
type Command struct {
	Frame    int64       `json:"frame"`
	PlayerID string      `json:"playerId"`
	Type     CommandType `json:"type"`
	Data     CommandData `json:"data"`
}

// CommandError 指令被拒绝的原因
type CommandError struct {
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s (frame %d, player %s): %v", e.Command.Type, e.Command.Frame, e.Command.PlayerID, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Result 战斗结果
type Result struct {
	Victory       bool    `json:"victory"`
	Reason        string  `json:"reason"`
	Elapsed       float64 `json:"elapsed"`
	Frames        int64   `json:"frames"`
	Wave          int     `json:"wave"`
	BeansDefeated int     `json:"beansDefeated"`
	CrystalHP     float64 `json:"crystalHp"`
	HeroesAlive   int     `json:"heroesAlive"`
}

// UnitSnapshot 单位状态快照
type UnitSnapshot struct {
	ID       string      `json:"id"`
	Kind     entity.Kind `json:"kind"`
	ConfigID string      `json:"configId,omitempty"`
	HP       float64     `json:"hp"`
	MaxHP    float64     `json:"maxHp"`
	Shield   float64     `json:"shield,omitempty"`
	Alive    bool        `json:"alive"`
	Position entity.Vec2 `json:"position"`
	Level    int         `json:"level,omitempty"`
}

// BattleStats 战斗统计
type BattleStats struct {
	State         State          `json:"state"`
	Frame         int64          `json:"frame"`
	Elapsed       float64        `json:"elapsed"`
	Wave          int            `json:"wave"`
	Crystal       UnitSnapshot   `json:"crystal"`
	Heroes        []UnitSnapshot `json:"heroes"`
	Beans         []UnitSnapshot `json:"beans"`
	BeansSpawned  int            `json:"beansSpawned"`
	BeansDefeated int            `json:"beansDefeated"`
}

func snapshot(e *entity.Entity) UnitSnapshot {
	return UnitSnapshot{
		ID:       e.ID,
		Kind:     e.Kind,
		ConfigID: e.ConfigID,
		HP:       e.Stats.HP,
		MaxHP:    e.Stats.MaxHP,
		Shield:   e.Shield,
		Alive:    e.Alive,
		Position: e.Position,
		Level:    e.Level,
	}
}
