// Package app 提供战斗观察器的核心包装器
//
// 该包将战斗初始化和绘制逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/beanguard/pkg/battle"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/replay"
)

// 窗口与模拟节奏
const (
	WindowWidth  = 800
	WindowHeight = 600

	// FrameMs 每个 tick 传给 Manager.Update 的固定时长
	FrameMs = replay.DefaultFrameMs
	// TPS 与 FrameMs 对应的 tick 频率
	TPS = int(1000 / FrameMs)
)

var (
	colorBackground = color.RGBA{R: 34, G: 45, B: 38, A: 255}
	colorCrystal    = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	colorHero       = color.RGBA{R: 250, G: 210, B: 90, A: 255}
	colorBean       = color.RGBA{R: 200, G: 80, B: 70, A: 255}
	colorBoss       = color.RGBA{R: 150, G: 40, B: 160, A: 255}
	colorHPBack     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colorHP         = color.RGBA{R: 90, G: 220, B: 90, A: 255}
)

// skillKeys 按技能槽顺序对应的快捷键
var skillKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Provider 配置表
	Provider config.Provider
	// Level 关卡（如 "1-2"），为空时使用 1-1
	Level string
	// Hero 玩家英雄ID
	Hero string
	// Seed 随机种子
	Seed int64
	// Replays 录像存储，为 nil 时不保存录像
	Replays *replay.Store
}

// App 战斗观察器，实现 ebiten.Game 接口
type App struct {
	manager  *battle.Manager
	recorder *replay.Recorder
	replays  *replay.Store
	playerID string
	saved    bool
	status   string
	verbose  bool
}

// NewApp 创建并开始一场战斗
//
// 参数：
//   - cfg: 启动配置，Provider 和 Hero 必填
//
// 返回：
//   - *App: 已开始战斗的应用
//   - error: 关卡格式错误或战斗初始化失败
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.Provider == nil {
		return nil, errors.New("config provider is required")
	}

	levelID := cfg.Level
	if levelID == "" {
		levelID = "1-1"
	}
	ref, err := battle.ParseLevelRef(levelID)
	if err != nil {
		return nil, err
	}

	const playerID = "p1"
	params := battle.InitParams{
		Players: []battle.PlayerParams{{
			ID:    playerID,
			Hero:  battle.HeroParams{ID: cfg.Hero, Position: entity.Vec2{X: 0, Y: 80}},
			Items: map[string]int{"health_potion": 2},
		}},
		Level: ref,
	}

	m := battle.New(cfg.Provider, battle.WithVerbose(cfg.Verbose))
	if err := m.InitBattle(params, cfg.Seed); err != nil {
		return nil, fmt.Errorf("战斗初始化失败: %w", err)
	}
	rec := replay.NewRecorder(m)
	if err := m.StartBattle(); err != nil {
		rec.Close()
		return nil, fmt.Errorf("战斗开始失败: %w", err)
	}
	log.Printf("[App] Battle %s started (hero=%s seed=%d)", levelID, cfg.Hero, cfg.Seed)

	return &App{
		manager:  m,
		recorder: rec,
		replays:  cfg.Replays,
		playerID: playerID,
		verbose:  cfg.Verbose,
	}, nil
}

// Update 处理输入并推进一帧模拟
func (a *App) Update() error {
	m := a.manager

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		switch m.GetState() {
		case battle.StateFighting:
			_ = m.PauseBattle()
		case battle.StatePause:
			_ = m.ResumeBattle()
		}
	}

	if m.GetState() == battle.StateFighting {
		a.handleCommands()
	}

	m.Update(FrameMs)

	if m.GetState().IsTerminal() && !a.saved {
		a.saved = true
		a.finish()
	}
	return nil
}

// handleCommands 数字键释放技能，左键移动英雄；指令安排在下一帧执行
func (a *App) handleCommands() {
	hero, ok := a.manager.Hero(a.playerID)
	if !ok || !hero.Alive {
		return
	}
	next := a.manager.Frame() + 1

	for i, slot := range hero.Skills {
		if i >= len(skillKeys) {
			break
		}
		if inpututil.IsKeyJustPressed(skillKeys[i]) {
			a.submit(battle.Command{
				Frame: next, PlayerID: a.playerID, Type: battle.CmdCastSkill,
				Data: battle.CommandData{SkillID: slot.Base.ID},
			})
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.submit(battle.Command{
			Frame: next, PlayerID: a.playerID, Type: battle.CmdUseItem,
			Data: battle.CommandData{ItemID: "health_potion"},
		})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pos := ScreenToWorld(float64(x), float64(y))
		a.submit(battle.Command{
			Frame: next, PlayerID: a.playerID, Type: battle.CmdChangePosition,
			Data: battle.CommandData{X: pos.X, Y: pos.Y},
		})
	}
}

func (a *App) submit(cmd battle.Command) {
	if err := a.recorder.Submit(cmd); err != nil {
		log.Printf("[App] Command rejected: %v", err)
	}
}

// finish 战斗结束后保存录像
func (a *App) finish() {
	if res := a.manager.GetResult(); res != nil {
		outcome := "DEFEAT"
		if res.Victory {
			outcome = "VICTORY"
		}
		a.status = fmt.Sprintf("%s (%s)", outcome, res.Reason)
	}
	if a.replays == nil {
		return
	}
	doc := a.recorder.Document(FrameMs)
	if err := a.replays.Save(doc); err != nil {
		log.Printf("[App] Warning: failed to save replay: %v", err)
		return
	}
	a.status += " replay " + doc.ReplayID
}

// Draw 绘制单位和调试信息
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, e := range a.manager.Entities() {
		if !e.Alive {
			continue
		}
		radius, clr := unitStyle(e)
		p := WorldToScreen(e.Position)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), radius, clr, true)
		drawHPBar(screen, p, radius, e.HPRatio())
	}

	stats := a.manager.GetBattleStats()
	info := fmt.Sprintf("state=%s wave=%d time=%.1fs crystal=%.0f beans=%d/%d",
		stats.State, stats.Wave, stats.Elapsed/1000, stats.Crystal.HP, stats.BeansDefeated, stats.BeansSpawned)
	if hero, ok := a.manager.Hero(a.playerID); ok {
		info += fmt.Sprintf("\nhero Lv%d hp=%.0f/%.0f", hero.Level, hero.Stats.HP, hero.Stats.MaxHP)
		for i, slot := range hero.Skills {
			info += fmt.Sprintf("  [%d]%s %.1fs", i+1, slot.Base.ID, slot.CurrentCooldown/1000)
		}
	}
	info += "\nSPACE pause  1-9 cast  Q potion  click move"
	if a.status != "" {
		info += "\n" + a.status
	}
	ebitenutil.DebugPrint(screen, info)
}

func unitStyle(e *entity.Entity) (float32, color.Color) {
	switch e.Kind {
	case entity.KindCrystal:
		return 24, colorCrystal
	case entity.KindHero:
		return 12, colorHero
	}
	if e.Boss {
		return 18, colorBoss
	}
	return 8, colorBean
}

func drawHPBar(screen *ebiten.Image, p entity.Vec2, radius float32, ratio float64) {
	w := radius * 2
	x := float32(p.X) - radius
	y := float32(p.Y) - radius - 6
	vector.DrawFilledRect(screen, x, y, w, 3, colorHPBack, false)
	vector.DrawFilledRect(screen, x, y, w*float32(ratio), 3, colorHP, false)
}

// WorldToScreen 世界坐标（水晶为原点）转屏幕坐标
func WorldToScreen(p entity.Vec2) entity.Vec2 {
	return entity.Vec2{X: p.X + WindowWidth/2, Y: p.Y + WindowHeight/2}
}

// ScreenToWorld 屏幕坐标转世界坐标
func ScreenToWorld(x, y float64) entity.Vec2 {
	return entity.Vec2{X: x - WindowWidth/2, Y: y - WindowHeight/2}
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Manager 返回当前战斗管理器
func (a *App) Manager() *battle.Manager {
	return a.manager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
