package combat

import (
	"reflect"
	"testing"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
)

func ids(list []*entity.Entity) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func TestSelectTargets(t *testing.T) {
	w := newTestWorld()
	w.add("crystal", entity.KindCrystal, config.Stats{MaxHP: 1000}, 0, 0)
	hero := w.add("hero_1", entity.KindHero, config.Stats{MaxHP: 100}, 0, 0)
	w.add("hero_2", entity.KindHero, config.Stats{MaxHP: 100, HP: 40}, 10, 0)
	w.add("hero_3", entity.KindHero, config.Stats{MaxHP: 100, HP: 40}, 20, 0)
	w.add("bean_2", entity.KindBean, config.Stats{MaxHP: 50}, 100, 0)
	w.add("bean_1", entity.KindBean, config.Stats{MaxHP: 50}, 0, 100)
	w.add("bean_3", entity.KindBean, config.Stats{MaxHP: 50}, 50, 0)
	dead := w.add("bean_4", entity.KindBean, config.Stats{MaxHP: 50}, 5, 0)
	dead.TakeDamage(100)

	sel := NewTargetSelector(w)

	tests := []struct {
		name  string
		skill config.SkillConfig
		want  []string
	}{
		{"self", config.SkillConfig{TargetType: config.TargetSelf}, []string{"hero_1"}},
		{"single 取最近存活敌人", config.SkillConfig{TargetType: config.TargetSingle}, []string{"bean_3"}},
		{"area 按距离升序并受射程限制", config.SkillConfig{TargetType: config.TargetArea, Range: 100}, []string{"bean_3", "bean_1", "bean_2"}},
		{"area 射程过滤", config.SkillConfig{TargetType: config.TargetArea, Range: 60}, []string{"bean_3"}},
		{"ally 低血量优先，同比例按创建顺序", config.SkillConfig{TargetType: config.TargetAlly}, []string{"hero_2", "hero_3", "crystal"}},
		{"all_enemy 按创建顺序", config.SkillConfig{TargetType: config.TargetAllEnemy}, []string{"bean_2", "bean_1", "bean_3"}},
		{"连锁截断", config.SkillConfig{TargetType: config.TargetAllEnemy, ChainEffect: &config.ChainEffect{MaxTargets: 2, DamageReduction: 0.1}}, []string{"bean_2", "bean_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(sel.SelectTargets(hero, &tt.skill))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSelectSingleTieBreaksByID(t *testing.T) {
	w := newTestWorld()
	hero := w.add("hero_1", entity.KindHero, config.Stats{MaxHP: 100}, 0, 0)
	w.add("bean_b", entity.KindBean, config.Stats{MaxHP: 50}, 0, 30)
	w.add("bean_a", entity.KindBean, config.Stats{MaxHP: 50}, 30, 0)

	got := NewTargetSelector(w).SelectTargets(hero, &config.SkillConfig{TargetType: config.TargetSingle})
	if len(got) != 1 || got[0].ID != "bean_a" {
		t.Errorf("equal distance should pick lowest id bean_a, got %v", ids(got))
	}
}

func TestSelectSingleChainHops(t *testing.T) {
	w := newTestWorld()
	hero := w.add("hero_1", entity.KindHero, config.Stats{MaxHP: 100}, 0, 0)
	w.add("bean_1", entity.KindBean, config.Stats{MaxHP: 50}, 100, 0)
	w.add("bean_2", entity.KindBean, config.Stats{MaxHP: 50}, 180, 0)
	w.add("bean_3", entity.KindBean, config.Stats{MaxHP: 50}, 250, 0)
	w.add("bean_4", entity.KindBean, config.Stats{MaxHP: 50}, 600, 0)

	skill := &config.SkillConfig{
		TargetType:  config.TargetSingle,
		Range:       150,
		ChainEffect: &config.ChainEffect{MaxTargets: 4, DamageReduction: 0.2},
	}
	got := ids(NewTargetSelector(w).SelectTargets(hero, skill))
	want := []string{"bean_1", "bean_2", "bean_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected chain %v (bean_4 out of hop range), got %v", want, got)
	}
}

func TestSelectEmptyWhenNoEnemies(t *testing.T) {
	w := newTestWorld()
	hero := w.add("hero_1", entity.KindHero, config.Stats{MaxHP: 100}, 0, 0)

	got := NewTargetSelector(w).SelectTargets(hero, &config.SkillConfig{TargetType: config.TargetSingle})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestBeanTargetPriority(t *testing.T) {
	w := newTestWorld()
	w.add("crystal", entity.KindCrystal, config.Stats{MaxHP: 1000}, 0, 0)
	w.add("hero_1", entity.KindHero, config.Stats{MaxHP: 100}, 200, 0)

	tests := []struct {
		name     string
		priority string
		x        float64
		want     string
	}{
		{"默认攻击水晶", config.PriorityCrystal, 250, "crystal"},
		{"拦截范围内的英雄", config.PriorityIntercept, 250, "hero_1"},
		{"英雄超出拦截范围", config.PriorityIntercept, 400, "crystal"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bean := w.add("bean_"+string(rune('a'+i)), entity.KindBean, config.Stats{MaxHP: 50}, tt.x, 0)
			bean.Bean = &config.BeanConfig{TargetPriority: tt.priority, InterceptRange: 100}

			got := NewTargetSelector(w).SelectTargets(bean, &config.SkillConfig{TargetType: config.TargetSingle})
			if len(got) != 1 || got[0].ID != tt.want {
				t.Errorf("expected %s, got %v", tt.want, ids(got))
			}
		})
	}
}
