package battle

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/config/configmock"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

func TestInitBattleNotFound(t *testing.T) {
	t.Run("关卡不存在", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := configmock.NewMockProvider(ctrl)
		provider.EXPECT().GetLevel("9-9").Return(nil, fmt.Errorf("%w: level %q", config.ErrNotFound, "9-9"))

		m := New(provider)
		p := params("mage", 1)
		p.Level = LevelRef{Chapter: 9, Stage: 9}
		if err := m.InitBattle(p, 1); !errors.Is(err, config.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := m.StartBattle(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("start without init should fail, got %v", err)
		}
	})

	t.Run("英雄不存在", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := configmock.NewMockProvider(ctrl)
		provider.EXPECT().GetLevel("1-1").Return(&config.LevelConfig{ID: "1-1"}, nil)
		provider.EXPECT().GetHero("ghost").Return(nil, fmt.Errorf("%w: hero %q", config.ErrNotFound, "ghost"))

		m := New(provider)
		if err := m.InitBattle(params("ghost", 1), 1); !errors.Is(err, config.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if m.GetState() != StatePrepare {
			t.Errorf("state should stay prepare, got %s", m.GetState())
		}
	})
}

func TestStartBattle(t *testing.T) {
	m, events := startedManager(t, "mage", 1, 42)

	if m.GetState() != StateFighting {
		t.Fatalf("expected fighting, got %s", m.GetState())
	}
	stats := m.GetBattleStats()
	if stats.Crystal.HP != 1000 || len(stats.Heroes) != 1 || stats.Wave != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	got := []event.Type{(*events)[0].Type(), (*events)[1].Type()}
	want := []event.Type{event.WaveStart, event.BattleStarted}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if err := m.StartBattle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second start should fail, got %v", err)
	}
}

// TestCrystalDestroyedOnce 同一帧内两次致死伤害只触发一次 game_over
func TestCrystalDestroyedOnce(t *testing.T) {
	m := New(newTestStore(t))
	var events []event.Event
	m.GetEventManager().SubscribeAll(func(e event.Event) { events = append(events, e) })

	p := params("guard", 2)
	p.Crystal.MaxHP = 1000
	if err := m.InitBattle(p, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.StartBattle(); err != nil {
		t.Fatal(err)
	}

	if err := m.HandleDamage(entity.KindCrystal, CrystalID, 1000); err != nil {
		t.Fatalf("first hit: %v", err)
	}
	if err := m.HandleDamage(entity.KindCrystal, CrystalID, 1000); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second hit after defeat should report invalid state, got %v", err)
	}

	if hp := m.GetBattleStats().Crystal.HP; hp != 0 {
		t.Errorf("crystal hp should stay 0, got %v", hp)
	}
	if n := countEvents(events, event.GameOver); n != 1 {
		t.Fatalf("game_over expected once, got %d", n)
	}
	res := m.GetResult()
	if res == nil || res.Victory || res.Reason != ReasonCrystalDestroyed || m.GetState() != StateDefeat {
		t.Errorf("unexpected result %+v state=%s", res, m.GetState())
	}

	m.Update(100)
	if m.Frame() != 0 {
		t.Error("terminal state must not process ticks")
	}
}

func TestHandleDamageUnknownEntity(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 1)
	if err := m.HandleDamage(entity.KindBean, "bean_404", 10); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if err := m.HandleDamage(entity.KindBean, CrystalID, 10); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("kind mismatch should be rejected, got %v", err)
	}
}

// TestBeanSnapsToCrystal 移动不会越过水晶
func TestBeanSnapsToCrystal(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 1)
	red, _ := m.provider.GetBean("red")

	bean := m.newBean("bean_test", red, config.Stats{MaxHP: 100, Speed: 100}, entity.Vec2{X: 50})
	m.Update(1000)

	if bean.Position != m.Crystal().Position {
		t.Errorf("expected bean at crystal %v, got %v", m.Crystal().Position, bean.Position)
	}

	far := m.newBean("bean_far", red, config.Stats{MaxHP: 100, Speed: 100}, entity.Vec2{Y: -300})
	m.Update(1000)
	if far.Position != (entity.Vec2{Y: -200}) {
		t.Errorf("expected 100 units of progress, got %v", far.Position)
	}
}

func TestPauseResume(t *testing.T) {
	m, events := startedManager(t, "guard", 2, 1)
	m.Update(50)

	if err := m.PauseBattle(); err != nil {
		t.Fatal(err)
	}
	m.Update(50)
	if m.Frame() != 1 || m.Elapsed() != 50 {
		t.Errorf("paused battle must not tick, frame=%d elapsed=%v", m.Frame(), m.Elapsed())
	}
	if err := m.PauseBattle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double pause should fail, got %v", err)
	}
	if err := m.ResumeBattle(); err != nil {
		t.Fatal(err)
	}
	m.Update(50)
	if m.Frame() != 2 {
		t.Errorf("expected frame 2 after resume, got %d", m.Frame())
	}
	if countEvents(*events, event.BattlePaused) != 1 || countEvents(*events, event.BattleResumed) != 1 {
		t.Error("expected one battle_paused and one battle_resumed")
	}
}

func TestVictoryAllDefeated(t *testing.T) {
	m, events := startedManager(t, "mage", 1, 7)

	for i := 0; i < 400 && !m.GetState().IsTerminal(); i++ {
		m.Update(50)
	}

	res := m.GetResult()
	if res == nil || !res.Victory || res.Reason != ReasonAllDefeated {
		t.Fatalf("expected all_defeated victory, got %+v", res)
	}
	if res.BeansDefeated != 3 || countEvents(*events, event.BeanDefeated) != 3 {
		t.Errorf("expected 3 beans defeated, got %d", res.BeansDefeated)
	}
	if countEvents(*events, event.WaveCompleted) != 1 {
		t.Errorf("expected wave_completed once")
	}
	hero, _ := m.Hero("p1")
	if hero.Level != 1 || hero.Experience != 30 {
		t.Errorf("hero should collect 30 exp, got level %d exp %d", hero.Level, hero.Experience)
	}
}

func TestVictoryTimeSurvived(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 3)
	for i := 0; i < 59; i++ {
		m.Update(50)
	}
	if m.GetState() != StateFighting {
		t.Fatalf("should still be fighting at 2950ms, got %s", m.GetState())
	}
	m.Update(50)
	if res := m.GetResult(); res == nil || res.Reason != ReasonTimeSurvived {
		t.Errorf("expected time_survived at 3000ms, got %+v", res)
	}
}

func TestVictoryBossDefeated(t *testing.T) {
	m, events := startedManager(t, "mage", 3, 11)

	if countEvents(*events, event.SpawnBean) != 1 {
		t.Fatal("boss should spawn when its wave starts")
	}
	for i := 0; i < 600 && !m.GetState().IsTerminal(); i++ {
		m.Update(50)
	}
	if res := m.GetResult(); res == nil || !res.Victory || res.Reason != ReasonBossDefeated {
		t.Fatalf("expected boss_defeated victory, got %+v", res)
	}
	boss := false
	for _, e := range *events {
		if d, ok := e.(event.BeanDefeatedEvent); ok && d.Boss {
			boss = true
		}
	}
	if !boss {
		t.Error("expected bean_defeated for the boss")
	}
}

// TestLateBossSpawnsInLastWave 首领解锁波次超过总波数时在最后一波出场，战斗能够结束
func TestLateBossSpawnsInLastWave(t *testing.T) {
	m, events := startedManager(t, "mage", 5, 11)

	bossSpawned := false
	for _, e := range *events {
		if s, ok := e.(event.SpawnBeanEvent); ok && s.BeanType == "late_king" {
			bossSpawned = true
		}
	}
	if !bossSpawned {
		t.Fatal("boss should spawn in the last wave")
	}
	for i := 0; i < 2000 && !m.GetState().IsTerminal(); i++ {
		m.Update(50)
	}
	if res := m.GetResult(); res == nil || !res.Victory || res.Reason != ReasonBossDefeated {
		t.Fatalf("expected boss_defeated victory, got %+v (state %s)", res, m.GetState())
	}
}

func TestDefeatAllHeroesDead(t *testing.T) {
	m, events := startedManager(t, "guard", 4, 1)
	hero, _ := m.Hero("p1")

	if err := m.HandleDamage(entity.KindHero, hero.ID, 10000); err != nil {
		t.Fatal(err)
	}
	if res := m.GetResult(); res == nil || res.Reason != ReasonAllHeroesDead {
		t.Fatalf("expected all_heroes_dead, got %+v", res)
	}
	if countEvents(*events, event.HeroDied) != 1 {
		t.Error("expected hero_died once")
	}
}

func TestResetReplaysIdentically(t *testing.T) {
	m, events := startedManager(t, "mage", 3, 99)
	for i := 0; i < 200; i++ {
		m.Update(50)
	}
	first := encodeEvents(t, *events)

	m.Reset()
	if m.GetState() != StatePrepare || m.Frame() != 0 {
		t.Fatalf("reset should return to prepare, got %s frame %d", m.GetState(), m.Frame())
	}
	*events = (*events)[:0]
	if err := m.StartBattle(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		m.Update(50)
	}
	second := encodeEvents(t, *events)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reset battle diverged: %d vs %d events", len(first), len(second))
	}
}

// TestDeterminism 相同参数、种子和指令得到逐字节相同的事件序列
func TestDeterminism(t *testing.T) {
	run := func() []string {
		m, events := startedManager(t, "mage", 3, 12345)
		cmds := []Command{
			{Frame: 10, PlayerID: "p1", Type: CmdChangePosition, Data: CommandData{X: 30, Y: -20}},
			{Frame: 40, PlayerID: "p1", Type: CmdLearnSkill, Data: CommandData{SkillID: "shockwave"}},
			{Frame: 80, PlayerID: "p1", Type: CmdCastSkill, Data: CommandData{SkillID: "shockwave"}},
		}
		for _, c := range cmds {
			if err := m.SubmitCommand(c); err != nil {
				t.Fatalf("SubmitCommand: %v", err)
			}
		}
		for i := 0; i < 300 && !m.GetState().IsTerminal(); i++ {
			m.Update(50)
		}
		return encodeEvents(t, *events)
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("runs diverged: %d vs %d events", len(a), len(b))
	}
}

// TestDeterminismProperty 任意种子和指令脚本下，两次模拟的事件序列一致
func TestDeterminismProperty(t *testing.T) {
	store := newTestStore(t)

	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		stage := rapid.IntRange(1, 4).Draw(rt, "stage")
		n := rapid.IntRange(0, 6).Draw(rt, "commands")

		var cmds []Command
		frame := int64(0)
		for i := 0; i < n; i++ {
			frame += int64(rapid.IntRange(1, 40).Draw(rt, "gap"))
			cmd := Command{Frame: frame, PlayerID: "p1"}
			switch rapid.IntRange(0, 3).Draw(rt, "type") {
			case 0:
				cmd.Type = CmdCastSkill
				cmd.Data.SkillID = rapid.SampledFrom([]string{"bolt", "shockwave"}).Draw(rt, "skill")
			case 1:
				cmd.Type = CmdLearnSkill
				cmd.Data.SkillID = "shockwave"
			case 2:
				cmd.Type = CmdChangePosition
				cmd.Data.X = rapid.Float64Range(-200, 200).Draw(rt, "x")
				cmd.Data.Y = rapid.Float64Range(-200, 200).Draw(rt, "y")
			default:
				cmd.Type = CmdUseItem
				cmd.Data.ItemID = "potion"
			}
			cmds = append(cmds, cmd)
		}

		run := func() []string {
			m := New(store)
			var out []string
			m.GetEventManager().SubscribeAll(func(e event.Event) {
				data, err := json.Marshal(e)
				if err != nil {
					rt.Fatalf("marshal %s: %v", e.Type(), err)
				}
				out = append(out, string(e.Type())+" "+string(data))
			})
			if err := m.InitBattle(params("mage", stage), seed); err != nil {
				rt.Fatalf("InitBattle: %v", err)
			}
			if err := m.StartBattle(); err != nil {
				rt.Fatalf("StartBattle: %v", err)
			}
			for _, c := range cmds {
				if err := m.SubmitCommand(c); err != nil {
					rt.Fatalf("SubmitCommand: %v", err)
				}
			}
			for i := 0; i < 200 && !m.GetState().IsTerminal(); i++ {
				m.Update(50)
			}
			return out
		}

		a, b := run(), run()
		if !reflect.DeepEqual(a, b) {
			rt.Fatalf("runs diverged: %d vs %d events", len(a), len(b))
		}
	})
}
