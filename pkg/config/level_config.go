package config

import "fmt"

// 胜利条件类型
const (
	VictoryAllDefeated  = "allDefeated"
	VictoryTimeSurvived = "timeSurvived"
	VictoryBossDefeated = "bossDefeated"
)

// 失败条件类型
const (
	DefeatCrystalDestroyed = "crystalDestroyed"
	DefeatAllHeroesDead    = "allHeroesDead" // 水晶被毁或英雄全灭
)

// 生成模式
const (
	SpawnUniform  = "uniform"
	SpawnWeighted = "weighted"
)

// LevelConfig 关卡（Stage）配置
type LevelConfig struct {
	ID      string `yaml:"id"` // 关卡ID，如 "1-1"
	Name    string `yaml:"name"`
	Chapter int    `yaml:"chapter"`
	Stage   int    `yaml:"stage"`

	BeanRatios    []BeanRatio `yaml:"beanRatios"`    // 可出现的小豆类型及权重
	TotalBeans    int         `yaml:"totalBeans"`    // 整个关卡生成的小豆总数
	MaxWaves      int         `yaml:"maxWaves"`      // 可选：最大波次数，0 表示直到 TotalBeans 生成完
	SpawnInterval float64     `yaml:"spawnInterval"` // 基础生成间隔（毫秒），默认 2000
	SpawnMode     string      `yaml:"spawnMode"`     // "uniform"（默认）或 "weighted"
	SpawnDistance float64     `yaml:"spawnDistance"` // 生成点与水晶的距离，默认 400

	Crystal          CrystalConfig    `yaml:"crystal"`
	VictoryCondition VictoryCondition `yaml:"victoryCondition"`
	DefeatCondition  DefeatCondition  `yaml:"defeatCondition"`
}

// BeanRatio 单个小豆类型的出现权重和属性系数
type BeanRatio struct {
	Type        string      `yaml:"type"`
	Weight      int         `yaml:"weight"`
	AttrFactors AttrFactors `yaml:"attrFactors"`
}

// AttrFactors 属性缩放系数，0 表示不缩放
type AttrFactors struct {
	HP      float64 `yaml:"hp"`
	Attack  float64 `yaml:"attack"`
	Defense float64 `yaml:"defense"`
	Speed   float64 `yaml:"speed"`
}

// CrystalConfig 水晶配置
type CrystalConfig struct {
	MaxHP   float64 `yaml:"maxHp"`
	Defense float64 `yaml:"defense"`
}

// VictoryCondition 胜利条件
type VictoryCondition struct {
	Type  string  `yaml:"type"`
	Value float64 `yaml:"value"` // timeSurvived: 需要坚持的模拟时间（毫秒）
	Boss  string  `yaml:"boss"`  // bossDefeated: 首领小豆类型
}

// DefeatCondition 失败条件
type DefeatCondition struct {
	Type string `yaml:"type"`
}

// LevelID 由章节和关卡号组成关卡ID，如 (1, 2) -> "1-2"
func LevelID(chapter, stage int) string {
	return fmt.Sprintf("%d-%d", chapter, stage)
}

// Ratio 返回指定小豆类型的比例配置
func (l *LevelConfig) Ratio(beanType string) (BeanRatio, bool) {
	for _, r := range l.BeanRatios {
		if r.Type == beanType {
			return r, true
		}
	}
	return BeanRatio{}, false
}

// applyLevelDefaults 为缺失的可选字段设置默认值
func applyLevelDefaults(l *LevelConfig) {
	if l.SpawnInterval == 0 {
		l.SpawnInterval = 2000
	}
	if l.SpawnMode == "" {
		l.SpawnMode = SpawnUniform
	}
	if l.SpawnDistance == 0 {
		l.SpawnDistance = 400
	}
	if l.VictoryCondition.Type == "" {
		l.VictoryCondition.Type = VictoryAllDefeated
	}
	if l.DefeatCondition.Type == "" {
		l.DefeatCondition.Type = DefeatCrystalDestroyed
	}
	if l.ID == "" && l.Chapter > 0 && l.Stage > 0 {
		l.ID = LevelID(l.Chapter, l.Stage)
	}
}
