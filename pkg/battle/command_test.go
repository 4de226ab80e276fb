package battle

import (
	"errors"
	"testing"

	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

func TestCommandsBufferedUntilFrame(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 1)
	hero, _ := m.Hero("p1")

	cmd := Command{Frame: 3, PlayerID: "p1", Type: CmdChangePosition, Data: CommandData{X: 10, Y: 20}}
	if err := m.SubmitCommand(cmd); err != nil {
		t.Fatal(err)
	}

	m.Update(50)
	m.Update(50)
	if hero.Position != (entity.Vec2{X: 0, Y: 50}) {
		t.Fatalf("command applied too early: %v", hero.Position)
	}
	m.Update(50)
	if hero.Position != (entity.Vec2{X: 10, Y: 20}) {
		t.Errorf("command not applied at frame 3: %v", hero.Position)
	}

	err := m.SubmitCommand(cmd)
	if !errors.Is(err, ErrOutOfOrderCommand) {
		t.Fatalf("expected ErrOutOfOrderCommand, got %v", err)
	}
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Command.Frame != 3 {
		t.Errorf("expected *CommandError for frame 3, got %v", err)
	}
	if len(m.RejectedCommands()) != 1 {
		t.Errorf("out-of-order command should be recorded")
	}
}

func TestCommandsAppliedInFrameOrder(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 1)
	hero, _ := m.Hero("p1")

	m.SubmitCommand(Command{Frame: 2, PlayerID: "p1", Type: CmdChangePosition, Data: CommandData{X: 2}})
	m.SubmitCommand(Command{Frame: 1, PlayerID: "p1", Type: CmdChangePosition, Data: CommandData{X: 1}})

	m.Update(50)
	if hero.Position.X != 1 {
		t.Errorf("frame 1 command first, got x=%v", hero.Position.X)
	}
	m.Update(50)
	if hero.Position.X != 2 {
		t.Errorf("frame 2 command second, got x=%v", hero.Position.X)
	}
}

func TestBadCommandDoesNotStopBattle(t *testing.T) {
	m, events := startedManager(t, "guard", 2, 1)

	m.SubmitCommand(Command{Frame: 1, PlayerID: "nobody", Type: CmdCastSkill, Data: CommandData{SkillID: "bolt"}})
	m.SubmitCommand(Command{Frame: 1, PlayerID: "p1", Type: CmdCastSkill, Data: CommandData{SkillID: "bolt"}})
	m.SubmitCommand(Command{Frame: 1, PlayerID: "p1", Type: "dance"})
	m.Update(50)

	if m.GetState() != StateFighting || m.Frame() != 1 {
		t.Fatalf("battle should continue, state=%s", m.GetState())
	}
	rejected := m.RejectedCommands()
	if len(rejected) != 3 {
		t.Fatalf("expected 3 rejected commands, got %d", len(rejected))
	}
	if !errors.Is(rejected[0], ErrUnknownEntity) || !errors.Is(rejected[1], ErrUnknownSkill) {
		t.Errorf("unexpected reasons: %v / %v", rejected[0], rejected[1])
	}
	if countEvents(*events, event.CommandRejected) != 3 {
		t.Errorf("expected 3 command_rejected events")
	}
}

func TestLearnSkill(t *testing.T) {
	m, _ := startedManager(t, "guard", 2, 1)
	hero, _ := m.Hero("p1")

	for f := int64(1); f <= 3; f++ {
		m.SubmitCommand(Command{Frame: f, PlayerID: "p1", Type: CmdLearnSkill, Data: CommandData{SkillID: "shockwave"}})
	}
	m.Update(50)
	slot := hero.SkillByID("shockwave")
	if slot == nil || slot.Level != 1 {
		t.Fatalf("expected shockwave learned at level 1, got %+v", slot)
	}
	m.Update(50)
	if slot.Level != 2 || slot.Config.BaseDamage != 80 {
		t.Errorf("expected level 2 with baseDamage 80, got level %d damage %v", slot.Level, slot.Config.BaseDamage)
	}
	m.Update(50)
	rejected := m.RejectedCommands()
	if len(rejected) != 1 || !errors.Is(rejected[0], ErrSkillMaxLevel) {
		t.Errorf("third learn should hit max level, got %v", rejected)
	}
}

func TestUseItem(t *testing.T) {
	m, events := startedManager(t, "guard", 2, 1)
	hero, _ := m.Hero("p1")
	if err := m.HandleDamage(entity.KindHero, hero.ID, 150); err != nil {
		t.Fatal(err)
	}

	m.SubmitCommand(Command{Frame: 1, PlayerID: "p1", Type: CmdUseItem, Data: CommandData{ItemID: "potion"}})
	m.SubmitCommand(Command{Frame: 2, PlayerID: "p1", Type: CmdUseItem, Data: CommandData{ItemID: "potion"}})
	m.Update(50)

	if hero.Stats.HP != 200 || hero.Items["potion"] != 0 {
		t.Errorf("potion should heal to full and be consumed, hp=%v left=%d", hero.Stats.HP, hero.Items["potion"])
	}
	m.Update(50)
	if rejected := m.RejectedCommands(); len(rejected) != 1 || !errors.Is(rejected[0], ErrNoItem) {
		t.Errorf("second potion should be rejected, got %v", rejected)
	}

	free := false
	for _, e := range *events {
		if c, ok := e.(event.SkillCastEvent); ok && c.SkillID == "potion" && c.Free {
			free = true
		}
	}
	if !free {
		t.Error("item use should emit a free skill_cast")
	}
}

// TestCastSkillTargetFaction 指定目标的阵营必须与技能类型一致
func TestCastSkillTargetFaction(t *testing.T) {
	tests := []struct {
		name   string
		hero   string
		skill  string
		target func(m *Manager) string
	}{
		{
			name:   "伤害技能指向己方水晶",
			hero:   "mage",
			skill:  "bolt",
			target: func(m *Manager) string { return m.Crystal().ID },
		},
		{
			name:  "伤害技能指向自己",
			hero:  "mage",
			skill: "bolt",
			target: func(m *Manager) string {
				h, _ := m.Hero("p1")
				return h.ID
			},
		},
		{
			name:  "治疗技能指向小豆",
			hero:  "guard",
			skill: "potion",
			target: func(m *Manager) string {
				for _, e := range m.Entities() {
					if e.Kind == entity.KindBean && e.Alive {
						return e.ID
					}
				}
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, events := startedManager(t, tt.hero, 2, 1)
			hero, _ := m.Hero("p1")
			if hero.SkillByID(tt.skill) == nil {
				if err := m.SubmitCommand(Command{Frame: 1, PlayerID: "p1", Type: CmdLearnSkill, Data: CommandData{SkillID: tt.skill}}); err != nil {
					t.Fatal(err)
				}
			}
			for i := 0; i < 3; i++ {
				m.Update(50)
			}

			targetID := tt.target(m)
			if targetID == "" {
				t.Fatal("no target available")
			}
			crystalHP := m.Crystal().Stats.HP
			heroHP := hero.Stats.HP

			cmd := Command{Frame: m.Frame() + 1, PlayerID: "p1", Type: CmdCastSkill, Data: CommandData{SkillID: tt.skill, TargetID: targetID}}
			if err := m.SubmitCommand(cmd); err != nil {
				t.Fatal(err)
			}
			m.Update(50)

			rejected := m.RejectedCommands()
			if len(rejected) != 1 || !errors.Is(rejected[0], ErrInvalidTarget) {
				t.Fatalf("expected ErrInvalidTarget, got %v", rejected)
			}
			if countEvents(*events, event.CommandRejected) != 1 {
				t.Errorf("expected one command_rejected event")
			}
			if m.Crystal().Stats.HP != crystalHP || hero.Stats.HP != heroHP {
				t.Errorf("own side must be untouched: crystal %v -> %v, hero %v -> %v",
					crystalHP, m.Crystal().Stats.HP, heroHP, hero.Stats.HP)
			}
		})
	}
}
