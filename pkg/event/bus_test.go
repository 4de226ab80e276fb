package event

import (
	"reflect"
	"testing"
)

func TestSubscribeAndEmit(t *testing.T) {
	bus := NewBus()
	var got []Type

	bus.Subscribe(DamageDealt, func(e Event) { got = append(got, e.Type()) })
	bus.SubscribeAll(func(e Event) { got = append(got, "all:"+e.Type()) })

	bus.Emit(DamageDealtEvent{Source: "p1", Target: "bean_1", Value: 10})
	bus.Emit(HealAppliedEvent{Source: "p1", Target: "p1", Value: 5})

	want := []Type{DamageDealt, "all:" + DamageDealt, "all:" + HealApplied}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dispatch order: expected %v, got %v", want, got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	id := bus.Subscribe(GameOver, func(Event) { calls++ })

	bus.Emit(GameOverEvent{Victory: true})
	bus.Unsubscribe(id)
	bus.Emit(GameOverEvent{Victory: true})

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

// TestNestedEmitIsQueued 处理函数内发布的事件在当前分发结束后才投递
func TestNestedEmitIsQueued(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Subscribe(BeanDefeated, func(e Event) {
		order = append(order, "defeated:first")
		bus.Emit(WaveCompletedEvent{Wave: 1})
		order = append(order, "defeated:after-emit")
	})
	bus.Subscribe(BeanDefeated, func(e Event) {
		order = append(order, "defeated:second")
	})
	bus.Subscribe(WaveCompleted, func(e Event) {
		order = append(order, "wave_completed")
	})

	bus.Emit(BeanDefeatedEvent{ID: "bean_1"})

	want := []string{"defeated:first", "defeated:after-emit", "defeated:second", "wave_completed"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestEventTypesMatchTopics(t *testing.T) {
	tests := []struct {
		event Event
		want  Type
	}{
		{BattleStartedEvent{}, "battle_started"},
		{DamageDealtEvent{}, "damage_dealt"},
		{BuffAppliedEvent{}, "buff_applied"},
		{DebuffAppliedEvent{}, "debuff_applied"},
		{SkillCastEvent{}, "skill_cast"},
		{BeanDefeatedEvent{}, "bean_defeated"},
		{GameOverEvent{}, "game_over"},
	}
	for _, tt := range tests {
		if got := tt.event.Type(); got != tt.want {
			t.Errorf("%T.Type() = %q, want %q", tt.event, got, tt.want)
		}
	}
}
