package config

// 小豆的目标优先级
const (
	PriorityCrystal   = "crystal"   // 始终以水晶为目标
	PriorityIntercept = "intercept" // 射程内有英雄时优先拦截英雄
)

// HeroConfig 英雄配置
type HeroConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Stats       Stats    `yaml:"stats"`
	Skills      []string `yaml:"skills"`      // 初始技能ID列表
	Growth      Stats    `yaml:"growth"`      // 每升一级增加的属性
	ExpPerLevel int      `yaml:"expPerLevel"` // 每级所需经验，默认 100
}

// BeanConfig 小豆（敌人）配置
type BeanConfig struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Stats          Stats   `yaml:"stats"`
	Skill          string  `yaml:"skill"`          // 可选：唯一技能ID
	UnlockWave     int     `yaml:"unlockWave"`     // 从第几波开始出现，默认 1
	Reward         int     `yaml:"reward"`         // 击败后给予击杀英雄的经验
	Boss           bool    `yaml:"boss"`           // 是否为首领
	TargetPriority string  `yaml:"targetPriority"` // "crystal"（默认）或 "intercept"
	InterceptRange float64 `yaml:"interceptRange"` // 拦截判定距离
	StopDistance   float64 `yaml:"stopDistance"`   // 距水晶多远时停止前进并开始接触攻击
	AttackInterval float64 `yaml:"attackInterval"` // 接触攻击间隔（毫秒），默认 1000
}

// ItemConfig 道具配置：使用时无视冷却释放绑定的技能
type ItemConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	SkillID string `yaml:"skill"`
}
