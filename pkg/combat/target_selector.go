package combat

import (
	"sort"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
)

// TargetSelector 根据技能目标类型解析目标列表
// 返回顺序有意义：连锁技能按顺序衰减伤害
type TargetSelector struct {
	world World
}

// NewTargetSelector 创建目标选择器
func NewTargetSelector(world World) *TargetSelector {
	return &TargetSelector{world: world}
}

// SelectTargets 解析技能目标，没有合法目标时返回空切片
func (ts *TargetSelector) SelectTargets(source *entity.Entity, skill *config.SkillConfig) []*entity.Entity {
	var targets []*entity.Entity

	switch skill.TargetType {
	case config.TargetSelf:
		if source.Alive {
			targets = []*entity.Entity{source}
		}
	case config.TargetSingle:
		targets = ts.selectSingle(source, skill)
	case config.TargetArea:
		targets = ts.selectArea(source, skill)
	case config.TargetAlly:
		targets = ts.selectAllies(source)
	case config.TargetAllEnemy:
		targets = ts.opponents(source)
	}

	if targets == nil {
		targets = []*entity.Entity{}
	}
	if skill.ChainEffect != nil && len(targets) > skill.ChainEffect.MaxTargets {
		targets = targets[:skill.ChainEffect.MaxTargets]
	}
	return targets
}

// InRange 目标是否在技能射程内，射程 <= 0 视为不限距离
func InRange(source, target *entity.Entity, skill *config.SkillConfig) bool {
	if skill.Range <= 0 {
		return true
	}
	return source.Position.DistanceTo(target.Position) <= skill.Range
}

// opponents 按创建顺序返回所有存活的敌对单位
func (ts *TargetSelector) opponents(source *entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, 0)
	for _, e := range ts.world.Entities() {
		if e.Alive && e.IsEnemyOf(source) {
			out = append(out, e)
		}
	}
	return out
}

// nearest 返回距离最近的单位，距离相同时取ID最小者
func nearest(list []*entity.Entity, origin entity.Vec2) *entity.Entity {
	if len(list) == 0 {
		return nil
	}
	sorted := append([]*entity.Entity(nil), list...)
	entity.SortByDistance(sorted, origin)
	return sorted[0]
}

func (ts *TargetSelector) selectSingle(source *entity.Entity, skill *config.SkillConfig) []*entity.Entity {
	var first *entity.Entity
	if source.Kind == entity.KindBean {
		first = ts.BeanTarget(source)
	} else {
		first = nearest(ts.opponents(source), source.Position)
	}
	if first == nil {
		return nil
	}

	targets := []*entity.Entity{first}
	if skill.ChainEffect == nil {
		return targets
	}

	// 连锁：从上一个命中点跳向最近的未命中敌人
	hit := map[string]bool{first.ID: true}
	prev := first
	for len(targets) < skill.ChainEffect.MaxTargets {
		candidates := make([]*entity.Entity, 0)
		for _, e := range ts.opponents(source) {
			if hit[e.ID] {
				continue
			}
			if skill.Range > 0 && prev.Position.DistanceTo(e.Position) > skill.Range {
				continue
			}
			candidates = append(candidates, e)
		}
		next := nearest(candidates, prev.Position)
		if next == nil {
			break
		}
		hit[next.ID] = true
		targets = append(targets, next)
		prev = next
	}
	return targets
}

// BeanTarget 小豆的主目标
//
// 默认以水晶为目标；配置为 intercept 的小豆在 interceptRange 内有存活英雄时
// 改为攻击最近的英雄。水晶已毁时退化为最近的敌对单位。
func (ts *TargetSelector) BeanTarget(bean *entity.Entity) *entity.Entity {
	if bean.Bean != nil && bean.Bean.TargetPriority == config.PriorityIntercept {
		heroes := make([]*entity.Entity, 0)
		for _, e := range ts.opponents(bean) {
			if e.Kind == entity.KindHero && bean.Position.DistanceTo(e.Position) <= bean.Bean.InterceptRange {
				heroes = append(heroes, e)
			}
		}
		if h := nearest(heroes, bean.Position); h != nil {
			return h
		}
	}

	if crystal := ts.world.Crystal(); crystal != nil && crystal.Alive {
		return crystal
	}
	return nearest(ts.opponents(bean), bean.Position)
}

func (ts *TargetSelector) selectArea(source *entity.Entity, skill *config.SkillConfig) []*entity.Entity {
	out := make([]*entity.Entity, 0)
	for _, e := range ts.opponents(source) {
		if InRange(source, e, skill) {
			out = append(out, e)
		}
	}
	entity.SortByDistance(out, source.Position)
	return out
}

// selectAllies 存活友方（不含自身），按生命比例升序，比例相同按创建顺序
func (ts *TargetSelector) selectAllies(source *entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, 0)
	for _, e := range ts.world.Entities() {
		if e.Alive && e.ID != source.ID && !e.IsEnemyOf(source) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].HPRatio(), out[j].HPRatio()
		if ri != rj {
			return ri < rj
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
