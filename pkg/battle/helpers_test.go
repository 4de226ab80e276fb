package battle

import (
	"encoding/json"
	"testing"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.NewStore(config.Tables{
		Skills: []config.SkillConfig{
			{ID: "bolt", Type: config.SkillDamage, TargetType: config.TargetSingle, Cooldown: 500, Range: 1000, BaseDamage: 200},
			{ID: "potion", Type: config.SkillHeal, TargetType: config.TargetSelf, BaseHeal: 100},
			{
				ID: "shockwave", Type: config.SkillDamage, TargetType: config.TargetArea, Cooldown: 3000,
				Range: 150, BaseDamage: 50, Manual: true,
				Upgrades: []config.SkillUpgrade{{Level: 2, BaseDamage: ptr(80.0)}},
			},
		},
		Heroes: []config.HeroConfig{
			{ID: "mage", Stats: config.Stats{MaxHP: 300, Attack: 50, Defense: 10}, Skills: []string{"bolt"}},
			{ID: "guard", Stats: config.Stats{MaxHP: 200, Defense: 30}},
		},
		Beans: []config.BeanConfig{
			{ID: "red", Stats: config.Stats{MaxHP: 100, Attack: 10, Speed: 60}, Reward: 10},
			{ID: "king", Stats: config.Stats{MaxHP: 500, Attack: 30, Speed: 30}, Boss: true, Reward: 100},
			{ID: "late_king", Stats: config.Stats{MaxHP: 500, Attack: 30, Speed: 30}, Boss: true, Reward: 100, UnlockWave: 9},
		},
		Items: []config.ItemConfig{{ID: "potion", SkillID: "potion"}},
		Levels: []config.LevelConfig{
			{
				Chapter: 1, Stage: 1, TotalBeans: 3,
				BeanRatios: []config.BeanRatio{{Type: "red", Weight: 1}},
				Crystal:    config.CrystalConfig{MaxHP: 1000},
			},
			{
				Chapter: 1, Stage: 2,
				BeanRatios:       []config.BeanRatio{{Type: "red", Weight: 1}},
				Crystal:          config.CrystalConfig{MaxHP: 100000},
				VictoryCondition: config.VictoryCondition{Type: config.VictoryTimeSurvived, Value: 3000},
			},
			{
				Chapter: 1, Stage: 3, TotalBeans: 5,
				BeanRatios:       []config.BeanRatio{{Type: "red", Weight: 1}},
				Crystal:          config.CrystalConfig{MaxHP: 5000},
				VictoryCondition: config.VictoryCondition{Type: config.VictoryBossDefeated, Boss: "king"},
			},
			{
				Chapter: 1, Stage: 4,
				BeanRatios:       []config.BeanRatio{{Type: "red", Weight: 1}},
				Crystal:          config.CrystalConfig{MaxHP: 100000},
				VictoryCondition: config.VictoryCondition{Type: config.VictoryTimeSurvived, Value: 1e9},
				DefeatCondition:  config.DefeatCondition{Type: config.DefeatAllHeroesDead},
			},
			{
				Chapter: 1, Stage: 5, TotalBeans: 3,
				BeanRatios:       []config.BeanRatio{{Type: "red", Weight: 1}},
				Crystal:          config.CrystalConfig{MaxHP: 100000},
				VictoryCondition: config.VictoryCondition{Type: config.VictoryBossDefeated, Boss: "late_king"},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func params(heroID string, stage int) InitParams {
	return InitParams{
		Players: []PlayerParams{{
			ID:    "p1",
			Hero:  HeroParams{ID: heroID, Position: entity.Vec2{X: 0, Y: 50}},
			Items: map[string]int{"potion": 1},
		}},
		Level: LevelRef{Chapter: 1, Stage: stage},
	}
}

// startedManager 初始化并开始战斗，返回管理器和事件记录
func startedManager(t *testing.T, heroID string, stage int, seed int64) (*Manager, *[]event.Event) {
	t.Helper()
	m := New(newTestStore(t))
	var events []event.Event
	m.GetEventManager().SubscribeAll(func(e event.Event) { events = append(events, e) })

	if err := m.InitBattle(params(heroID, stage), seed); err != nil {
		t.Fatalf("InitBattle: %v", err)
	}
	if err := m.StartBattle(); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	return m, &events
}

func countEvents(events []event.Event, typ event.Type) int {
	n := 0
	for _, e := range events {
		if e.Type() == typ {
			n++
		}
	}
	return n
}

func encodeEvents(t *testing.T, events []event.Event) []string {
	t.Helper()
	out := make([]string, len(events))
	for i, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("marshal %s: %v", e.Type(), err)
		}
		out[i] = string(e.Type()) + " " + string(data)
	}
	return out
}
