package combat

import (
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

// testWorld 基于 Registry 的最小战场
type testWorld struct {
	reg *entity.Registry
}

func newTestWorld() *testWorld {
	return &testWorld{reg: entity.NewRegistry()}
}

func (w *testWorld) Entities() []*entity.Entity { return w.reg.All() }

func (w *testWorld) Lookup(id string) (*entity.Entity, bool) { return w.reg.Get(id) }

func (w *testWorld) Crystal() *entity.Entity {
	for _, e := range w.reg.OfKind(entity.KindCrystal) {
		return e
	}
	return nil
}

func (w *testWorld) add(id string, kind entity.Kind, stats config.Stats, x, y float64) *entity.Entity {
	e := entity.New(id, kind, stats)
	e.Position = entity.Vec2{X: x, Y: y}
	if err := w.reg.Add(e); err != nil {
		panic(err)
	}
	return e
}

// fixedRoller 按顺序返回预设值，并记录消耗次数
type fixedRoller struct {
	values []float64
	draws  int
}

func (r *fixedRoller) Next() float64 {
	v := 0.99
	if r.draws < len(r.values) {
		v = r.values[r.draws]
	}
	r.draws++
	return v
}

// recorder 记录总线上的全部事件
type recorder struct {
	events []event.Event
}

func record(bus *event.Bus) *recorder {
	r := &recorder{}
	bus.SubscribeAll(func(e event.Event) { r.events = append(r.events, e) })
	return r
}

func (r *recorder) count(t event.Type) int {
	n := 0
	for _, e := range r.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}

func damageSkill(base float64) *config.SkillConfig {
	return &config.SkillConfig{
		ID:                 "strike",
		Type:               config.SkillDamage,
		TargetType:         config.TargetSingle,
		Cooldown:           1000,
		Range:              300,
		BaseDamage:         base,
		CriticalMultiplier: 1.5,
		Level:              1,
		MaxLevel:           1,
	}
}
