package event

// Handler 事件处理函数
type Handler func(Event)

// SubscriptionID 订阅标识，用于取消订阅
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus 同步事件总线
//
// Emit 在调用方的调用栈上依次执行订阅者。处理函数内部再次 Emit 的事件
// 会排队，在当前事件分发完成后按 FIFO 顺序投递，不会嵌套分发。
// 处理函数不得回调战斗管理器的修改方法。
type Bus struct {
	nextID      SubscriptionID
	byType      map[Type][]subscription
	all         []subscription
	dispatching bool
	queue       []Event
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		nextID: 1,
		byType: make(map[Type][]subscription),
	}
}

// Subscribe 订阅指定主题
func (b *Bus) Subscribe(t Type, h Handler) SubscriptionID {
	id := b.nextID
	b.nextID++
	b.byType[t] = append(b.byType[t], subscription{id: id, handler: h})
	return id
}

// SubscribeAll 订阅所有主题（回放记录器、日志使用）
func (b *Bus) SubscribeAll(h Handler) SubscriptionID {
	id := b.nextID
	b.nextID++
	b.all = append(b.all, subscription{id: id, handler: h})
	return id
}

// Unsubscribe 取消订阅，ID 不存在时忽略
func (b *Bus) Unsubscribe(id SubscriptionID) {
	for t, subs := range b.byType {
		b.byType[t] = removeSubscription(subs, id)
	}
	b.all = removeSubscription(b.all, id)
}

func removeSubscription(subs []subscription, id SubscriptionID) []subscription {
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			return append(out, subs[i+1:]...)
		}
	}
	return subs
}

// Emit 发布事件
func (b *Bus) Emit(e Event) {
	if e == nil {
		return
	}
	if b.dispatching {
		b.queue = append(b.queue, e)
		return
	}

	b.dispatching = true
	defer func() { b.dispatching = false }()

	b.dispatch(e)
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.dispatch(next)
	}
}

func (b *Bus) dispatch(e Event) {
	// 先通知按主题订阅者，再通知全局订阅者；切片拷贝避免处理函数内取消订阅影响本次遍历
	typed := append([]subscription(nil), b.byType[e.Type()]...)
	for _, s := range typed {
		s.handler(e)
	}
	all := append([]subscription(nil), b.all...)
	for _, s := range all {
		s.handler(e)
	}
}

// Clear 移除全部订阅和排队事件
func (b *Bus) Clear() {
	b.byType = make(map[Type][]subscription)
	b.all = nil
	b.queue = nil
}
