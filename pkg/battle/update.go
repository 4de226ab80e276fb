package battle

import (
	"fmt"
	"log"

	"github.com/decker502/beanguard/pkg/combat"
	"github.com/decker502/beanguard/pkg/config"
	"github.com/decker502/beanguard/pkg/entity"
	"github.com/decker502/beanguard/pkg/event"
)

// ContactRange 小豆接触攻击的最小判定距离
const ContactRange = 20.0

// Update 推进一帧模拟
//
// 仅在 fighting 状态下执行。帧内顺序：
//  1. 执行本帧的玩家指令
//  2. 波次节奏：按间隔生成小豆
//  3. 小豆向水晶移动（不会越过水晶）
//  4. 技能冷却和持续效果维护
//  5. 英雄、小豆自动施法
//  6. 小豆接触攻击
//  7. 生成召唤单位
//  8. 移除死亡的小豆
//  9. 波次完成判定，必要时开始下一波
//  10. 胜负判定
//
// 参数：
//   - dt: 本帧模拟时长（毫秒）
func (m *Manager) Update(dt float64) {
	if m.state != StateFighting || dt < 0 {
		return
	}

	m.frame++
	m.elapsed += dt

	var summons []combat.SummonRequest
	summons = append(summons, m.processCommands()...)

	m.advanceSpawning(dt)
	m.moveBeans(dt)
	m.skills.Update(dt)

	for _, u := range m.registry.All() {
		if u.Kind == entity.KindCrystal {
			continue
		}
		summons = append(summons, m.skills.AutoCast(u)...)
	}

	m.contactAttacks(dt)
	m.materializeSummons(summons)
	m.removeDeadBeans()
	m.advanceWave()
	m.checkBattleEnd()
}

// processCommands 执行帧号等于当前帧的指令
// 执行失败只记录并发布 command_rejected，不会中断本帧
func (m *Manager) processCommands() []combat.SummonRequest {
	var summons []combat.SummonRequest

	n := 0
	for n < len(m.pending) && m.pending[n].Frame <= m.frame {
		cmd := m.pending[n]
		n++

		res, err := m.applyCommand(cmd)
		if err != nil {
			cerr := &CommandError{Command: cmd, Err: err}
			m.rejected = append(m.rejected, cerr)
			log.Printf("[BattleManager] Command rejected: %v", cerr)
			m.bus.Emit(event.CommandRejectedEvent{
				Frame:    cmd.Frame,
				PlayerID: cmd.PlayerID,
				Command:  string(cmd.Type),
				Reason:   err.Error(),
			})
			continue
		}
		summons = append(summons, res...)
	}
	m.pending = m.pending[n:]
	return summons
}

func (m *Manager) applyCommand(cmd Command) ([]combat.SummonRequest, error) {
	hero, ok := m.players[cmd.PlayerID]
	if !ok {
		return nil, fmt.Errorf("player %q: %w", cmd.PlayerID, ErrUnknownEntity)
	}
	if !hero.Alive {
		return nil, fmt.Errorf("hero %s is dead: %w", hero.ID, ErrInvalidState)
	}

	switch cmd.Type {
	case CmdCastSkill:
		slot := hero.SkillByID(cmd.Data.SkillID)
		if slot == nil {
			return nil, fmt.Errorf("%s: %w", cmd.Data.SkillID, ErrUnknownSkill)
		}
		var targets []*entity.Entity
		if cmd.Data.TargetID != "" {
			target, ok := m.registry.Get(cmd.Data.TargetID)
			if !ok || !target.Alive {
				return nil, fmt.Errorf("target %q: %w", cmd.Data.TargetID, ErrUnknownEntity)
			}
			if err := checkTargetFaction(hero, target, slot.Config); err != nil {
				return nil, err
			}
			targets = []*entity.Entity{target}
		}
		res := m.skills.Cast(hero, slot, targets)
		return res.Summons, nil

	case CmdLearnSkill:
		return nil, m.learnSkill(hero, cmd.Data.SkillID)

	case CmdChangePosition:
		hero.Position = entity.Vec2{X: cmd.Data.X, Y: cmd.Data.Y}
		m.bus.Emit(event.UnitMovedEvent{ID: hero.ID, Position: hero.Position})
		return nil, nil

	case CmdUseItem:
		return m.useItem(hero, cmd.Data.ItemID)

	default:
		return nil, fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

// checkTargetFaction 伤害、减益、控制只能指向敌方，治疗、增益只能指向友方
func checkTargetFaction(caster, target *entity.Entity, skill *config.SkillConfig) error {
	hostile := target.IsEnemyOf(caster)
	switch skill.Type {
	case config.SkillDamage, config.SkillDebuff, config.SkillControl:
		if !hostile {
			return fmt.Errorf("%s cannot target ally %s: %w", skill.ID, target.ID, ErrInvalidTarget)
		}
	case config.SkillHeal, config.SkillBuff:
		if hostile {
			return fmt.Errorf("%s cannot target enemy %s: %w", skill.ID, target.ID, ErrInvalidTarget)
		}
	}
	return nil
}

// learnSkill 已掌握时升一级，否则学会 1 级技能
func (m *Manager) learnSkill(hero *entity.Entity, skillID string) error {
	if slot := hero.SkillByID(skillID); slot != nil {
		if !slot.CanLevelUp() {
			return fmt.Errorf("%s level %d: %w", skillID, slot.Level, ErrSkillMaxLevel)
		}
		slot.SetLevel(slot.Level + 1)
		if m.verbose {
			log.Printf("[BattleManager] %s: skill %s upgraded to level %d", hero.ID, skillID, slot.Level)
		}
		return nil
	}

	sk, err := m.provider.GetSkill(skillID)
	if err != nil {
		return err
	}
	hero.Skills = append(hero.Skills, entity.NewSkillSlot(sk, sk.Level))
	return nil
}

func (m *Manager) useItem(hero *entity.Entity, itemID string) ([]combat.SummonRequest, error) {
	if hero.Items[itemID] <= 0 {
		return nil, fmt.Errorf("%s: %w", itemID, ErrNoItem)
	}
	item, err := m.provider.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	sk, err := m.provider.GetSkill(item.SkillID)
	if err != nil {
		return nil, err
	}

	hero.Items[itemID]--
	res := m.skills.CastFree(hero, sk, nil)
	return res.Summons, nil
}

// startWave 开始新的一波，按需生成首领（到达解锁波次或已是最后一波）
func (m *Manager) startWave() {
	plan := m.waves.StartNewWave()
	m.waveActive = true
	m.toSpawn = plan.BeanCount
	m.spawnTimer = plan.SpawnInterval // 第一只在下一帧立即生成

	vc := m.level.VictoryCondition
	if vc.Type != config.VictoryBossDefeated || m.bossSpawned {
		return
	}
	boss, err := m.provider.GetBean(vc.Boss)
	if err != nil {
		return
	}
	// 解锁波次晚于最后一波时，首领在最后一波出场
	if plan.Wave < boss.UnlockWave && !m.waves.Exhausted() {
		return
	}
	if e := m.spawnBean([]string{boss.ID}); e != nil {
		m.bossSpawned = true
		m.bossID = e.ID
		log.Printf("[BattleManager] Boss %s (%s) spawned in wave %d", e.ID, boss.ID, plan.Wave)
	}
}

// advanceSpawning 按当前波次的间隔生成小豆
func (m *Manager) advanceSpawning(dt float64) {
	if !m.waveActive || m.toSpawn <= 0 {
		return
	}
	plan := m.waves.CurrentPlan()
	m.spawnTimer += dt
	for m.toSpawn > 0 && m.spawnTimer >= plan.SpawnInterval {
		m.spawnTimer -= plan.SpawnInterval
		m.toSpawn--
		m.spawnBean(plan.Types)
	}
}

// spawnBean 通过波次管理器选择类型和位置并创建小豆
func (m *Manager) spawnBean(types []string) *entity.Entity {
	order, err := m.waves.SpawnBeans(types, m.crystal.Position.X, m.crystal.Position.Y)
	if err != nil {
		log.Printf("[BattleManager] ERROR: %v", err)
		return nil
	}
	bean := m.newBean(order.ID, order.Config, order.Stats, order.Position)
	if bean != nil {
		m.beansSpawned++
	}
	return bean
}

func (m *Manager) newBean(id string, cfg *config.BeanConfig, stats config.Stats, pos entity.Vec2) *entity.Entity {
	bean := entity.New(id, entity.KindBean, stats)
	bean.ConfigID = cfg.ID
	bean.Bean = cfg
	bean.Boss = cfg.Boss
	bean.Position = pos
	if cfg.Skill != "" {
		if sk, err := m.provider.GetSkill(cfg.Skill); err == nil {
			bean.Skills = []*entity.SkillSlot{entity.NewSkillSlot(sk, sk.Level)}
		} else {
			log.Printf("[BattleManager] WARNING: bean %s: %v", cfg.ID, err)
		}
	}
	if err := m.registry.Add(bean); err != nil {
		log.Printf("[BattleManager] ERROR: %v", err)
		return nil
	}
	return bean
}

// moveBeans 小豆沿直线向水晶移动，到达停止距离后不再前进
func (m *Manager) moveBeans(dt float64) {
	target := m.crystal.Position
	for _, bean := range m.registry.OfKind(entity.KindBean) {
		if !bean.Alive || bean.IsStunned() {
			continue
		}
		stop := 0.0
		if bean.Bean != nil {
			stop = bean.Bean.StopDistance
		}

		dist := bean.Position.DistanceTo(target)
		if dist <= stop {
			continue
		}
		step := bean.Stats.Speed * dt / 1000
		if step <= 0 {
			continue
		}

		if step >= dist-stop {
			if stop == 0 {
				bean.Position = target
			} else {
				ratio := stop / dist
				bean.Position = entity.Vec2{
					X: target.X + (bean.Position.X-target.X)*ratio,
					Y: target.Y + (bean.Position.Y-target.Y)*ratio,
				}
			}
		} else {
			bean.Position = entity.Vec2{
				X: bean.Position.X + (target.X-bean.Position.X)/dist*step,
				Y: bean.Position.Y + (target.Y-bean.Position.Y)/dist*step,
			}
		}
		m.bus.Emit(event.UnitMovedEvent{ID: bean.ID, Position: bean.Position})
	}
}

// contactAttacks 到达攻击距离的小豆按间隔攻击目标
func (m *Manager) contactAttacks(dt float64) {
	selector := m.skills.Selector()
	calc := m.skills.Calculator()
	applier := m.skills.Applier()

	for _, bean := range m.registry.OfKind(entity.KindBean) {
		if !bean.Alive || bean.Bean == nil {
			continue
		}
		if bean.AttackTimer > 0 {
			bean.AttackTimer -= dt
		}
		if bean.AttackTimer > 0 || bean.IsStunned() {
			continue
		}

		target := selector.BeanTarget(bean)
		if target == nil {
			continue
		}
		reach := bean.Bean.StopDistance
		if reach < ContactRange {
			reach = ContactRange
		}
		if bean.Position.DistanceTo(target.Position) > reach {
			continue
		}

		applier.ApplyDamage(bean, target, calc.ContactDamage(bean, target), false, nil)
		bean.AttackTimer = bean.Bean.AttackInterval
	}
}

// materializeSummons 根据召唤请求创建单位
func (m *Manager) materializeSummons(reqs []combat.SummonRequest) {
	for _, req := range reqs {
		for i := 0; i < req.Count; i++ {
			switch req.Unit {
			case config.SummonHero:
				cfg, err := m.provider.GetHero(req.ConfigID)
				if err != nil {
					log.Printf("[BattleManager] WARNING: summon: %v", err)
					continue
				}
				hero := entity.New(m.registry.NextID("summon"), entity.KindHero, cfg.Stats)
				hero.ConfigID = cfg.ID
				hero.Hero = cfg
				hero.Level = 1
				hero.Position = req.Position
				for _, id := range cfg.Skills {
					if sk, err := m.provider.GetSkill(id); err == nil {
						hero.Skills = append(hero.Skills, entity.NewSkillSlot(sk, sk.Level))
					}
				}
				if err := m.registry.Add(hero); err != nil {
					log.Printf("[BattleManager] ERROR: %v", err)
				}
			default:
				cfg, err := m.provider.GetBean(req.ConfigID)
				if err != nil {
					log.Printf("[BattleManager] WARNING: summon: %v", err)
					continue
				}
				stats := cfg.Stats
				if r, ok := m.level.Ratio(cfg.ID); ok {
					stats = stats.Scaled(r.AttrFactors)
				}
				if m.newBean(m.registry.NextID("bean"), cfg, stats, req.Position) != nil {
					m.beansSpawned++
				}
			}
		}
	}
}

// removeDeadBeans 帧末统一移除死亡的小豆
func (m *Manager) removeDeadBeans() {
	for _, bean := range m.registry.OfKind(entity.KindBean) {
		if !bean.Alive {
			m.registry.MarkForRemoval(bean.ID)
		}
	}
	removed := m.registry.RemoveMarked()
	m.beansDefeated += len(removed)
	if m.verbose && len(removed) > 0 {
		log.Printf("[BattleManager] Removed %d defeated beans: %v", len(removed), removed)
	}
}

// advanceWave 当前波次生成完毕且场上没有小豆时完成该波并开始下一波
func (m *Manager) advanceWave() {
	if !m.waveActive || m.toSpawn > 0 || m.livingBeans() > 0 {
		return
	}
	m.waveActive = false
	m.bus.Emit(event.WaveCompletedEvent{Wave: m.waves.CurrentWave()})

	if !m.crystal.Alive || m.waves.Exhausted() {
		return
	}
	m.startWave()
}
