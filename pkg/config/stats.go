package config

// Stats 单位属性
// 配置中的 Stats 是不可变模板；实体持有的是运行时副本
type Stats struct {
	HP           float64 `yaml:"hp" json:"hp"`                                         // 当前生命值（模板中通常等于 MaxHP）
	MaxHP        float64 `yaml:"maxHp" json:"maxHp"`                                   // 最大生命值
	Attack       float64 `yaml:"attack" json:"attack"`                                 // 攻击力
	Defense      float64 `yaml:"defense" json:"defense"`                               // 防御力
	Speed        float64 `yaml:"speed" json:"speed"`                                   // 移动速度（世界单位/秒）
	MP           float64 `yaml:"mp,omitempty" json:"mp,omitempty"`                     // 当前法力（可选）
	MaxMP        float64 `yaml:"maxMp,omitempty" json:"maxMp,omitempty"`               // 最大法力（可选）
	MagicAttack  float64 `yaml:"magicAttack,omitempty" json:"magicAttack,omitempty"`   // 法术攻击（可选）
	MagicDefense float64 `yaml:"magicDefense,omitempty" json:"magicDefense,omitempty"` // 法术防御（可选）
}

// 可被 buff/debuff 修改的属性名
const (
	AttrAttack       = "attack"
	AttrDefense      = "defense"
	AttrSpeed        = "speed"
	AttrMagicAttack  = "magicAttack"
	AttrMagicDefense = "magicDefense"
)

// IsModifiableAttribute 判断属性名是否可被增益/减益效果修改
func IsModifiableAttribute(attr string) bool {
	switch attr {
	case AttrAttack, AttrDefense, AttrSpeed, AttrMagicAttack, AttrMagicDefense:
		return true
	}
	return false
}

// Get 按属性名读取数值，未知属性返回 0
func (s Stats) Get(attr string) float64 {
	switch attr {
	case AttrAttack:
		return s.Attack
	case AttrDefense:
		return s.Defense
	case AttrSpeed:
		return s.Speed
	case AttrMagicAttack:
		return s.MagicAttack
	case AttrMagicDefense:
		return s.MagicDefense
	}
	return 0
}

// Add 按属性名累加数值，未知属性忽略
func (s *Stats) Add(attr string, delta float64) {
	switch attr {
	case AttrAttack:
		s.Attack += delta
	case AttrDefense:
		s.Defense += delta
	case AttrSpeed:
		s.Speed += delta
	case AttrMagicAttack:
		s.MagicAttack += delta
	case AttrMagicDefense:
		s.MagicDefense += delta
	}
}

// Scaled 返回按系数缩放后的属性（用于关卡 attrFactors）
// 系数为 0 视为未配置，保持原值
func (s Stats) Scaled(f AttrFactors) Stats {
	out := s
	if f.HP > 0 {
		out.MaxHP = s.MaxHP * f.HP
		out.HP = s.HP * f.HP
	}
	if f.Attack > 0 {
		out.Attack = s.Attack * f.Attack
	}
	if f.Defense > 0 {
		out.Defense = s.Defense * f.Defense
	}
	if f.Speed > 0 {
		out.Speed = s.Speed * f.Speed
	}
	return out
}
