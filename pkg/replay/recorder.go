package replay

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/decker502/beanguard/pkg/battle"
	"github.com/decker502/beanguard/pkg/event"
)

// Recorder 订阅战斗事件并记录被接受的指令
//
// 必须在 StartBattle 之前创建，才能记录到开局事件。
type Recorder struct {
	m        *battle.Manager
	sub      event.SubscriptionID
	records  []EventRecord
	commands []battle.Command
}

// NewRecorder 创建记录器并订阅全部事件
func NewRecorder(m *battle.Manager) *Recorder {
	r := &Recorder{m: m}
	r.sub = m.GetEventManager().SubscribeAll(r.onEvent)
	return r
}

func (r *Recorder) onEvent(e event.Event) {
	// 暂停由宿主控制，不属于可重放的模拟过程
	switch e.Type() {
	case event.BattlePaused, event.BattleResumed:
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[Recorder] WARNING: failed to encode %s: %v", e.Type(), err)
		return
	}
	r.records = append(r.records, EventRecord{
		Time:  r.m.Elapsed(),
		Frame: r.m.Frame(),
		Type:  e.Type(),
		Data:  data,
	})
}

// Submit 提交指令，被接受的指令写入录像
func (r *Recorder) Submit(cmd battle.Command) error {
	if err := r.m.SubmitCommand(cmd); err != nil {
		return err
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// Records 已记录事件的副本
func (r *Recorder) Records() []EventRecord {
	return append([]EventRecord(nil), r.records...)
}

// Commands 已接受指令的副本
func (r *Recorder) Commands() []battle.Command {
	return append([]battle.Command(nil), r.commands...)
}

// Document 以当前会话状态生成录像文档
// frameMs 为宿主每帧传入 Update 的时长，<=0 时使用 DefaultFrameMs
func (r *Recorder) Document(frameMs float64) *Document {
	if frameMs <= 0 {
		frameMs = DefaultFrameMs
	}
	params := r.m.Params()
	return &Document{
		ReplayID:   uuid.NewString(),
		RandomSeed: r.m.Seed(),
		InitParams: params,
		Commands:   r.Commands(),
		Events:     r.Records(),
		Metadata: Metadata{
			BattleDuration: r.m.Elapsed(),
			Chapter:        params.Level.Chapter,
			Stage:          params.Level.Stage,
			Players:        len(params.Players),
			Version:        Version,
			FrameMs:        frameMs,
			Frames:         r.m.Frame(),
			Result:         r.m.GetResult(),
		},
	}
}

// Close 取消订阅
func (r *Recorder) Close() {
	r.m.GetEventManager().Unsubscribe(r.sub)
}
