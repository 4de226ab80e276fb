// Package combat 实现技能结算管线：目标选择 → 数值计算 → 效果应用 → 冷却
package combat

import "github.com/decker502/beanguard/pkg/entity"

// World 技能系统读取的战场视图，由战斗管理器实现
type World interface {
	// Entities 按创建顺序返回全部单位（包括已死亡但尚未移除的）
	Entities() []*entity.Entity
	// Lookup 按ID查询单位
	Lookup(id string) (*entity.Entity, bool)
	// Crystal 返回本场战斗唯一的水晶
	Crystal() *entity.Entity
}
