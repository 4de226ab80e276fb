package entity

import (
	"fmt"
	"sort"
)

// Registry 战斗会话内的单位集合
//
// 保持创建顺序（用于确定性遍历），负责ID分配；
// 死亡单位先标记，在帧末统一移除，避免遍历过程中修改集合。
type Registry struct {
	nextSeq  uint64
	counters map[string]int
	entities []*Entity
	byID     map[string]*Entity
	toRemove []string
}

// NewRegistry 创建空的单位集合
func NewRegistry() *Registry {
	return &Registry{
		nextSeq:  1, // 0 保留为无效序号
		counters: make(map[string]int),
		byID:     make(map[string]*Entity),
		toRemove: make([]string, 0),
	}
}

// NextID 分配形如 "bean_3" 的唯一ID
func (r *Registry) NextID(prefix string) string {
	for {
		r.counters[prefix]++
		id := fmt.Sprintf("%s_%d", prefix, r.counters[prefix])
		if _, exists := r.byID[id]; !exists {
			return id
		}
	}
}

// Add 加入单位并分配创建序号
func (r *Registry) Add(e *Entity) error {
	if e.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return fmt.Errorf("duplicate entity id %q", e.ID)
	}
	e.Seq = r.nextSeq
	r.nextSeq++
	r.entities = append(r.entities, e)
	r.byID[e.ID] = e
	return nil
}

// Get 按ID查询
func (r *Registry) Get(id string) (*Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// All 按创建顺序返回全部单位
func (r *Registry) All() []*Entity {
	out := make([]*Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// OfKind 按创建顺序返回指定种类的单位
func (r *Registry) OfKind(kind Kind) []*Entity {
	out := make([]*Entity, 0)
	for _, e := range r.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count 指定种类的单位数量
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, e := range r.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// MarkForRemoval 标记待移除(不立即删除)
func (r *Registry) MarkForRemoval(id string) {
	r.toRemove = append(r.toRemove, id)
}

// RemoveMarked 移除所有已标记的单位，返回被移除的ID（按创建顺序）
func (r *Registry) RemoveMarked() []string {
	if len(r.toRemove) == 0 {
		return nil
	}
	marked := make(map[string]bool, len(r.toRemove))
	for _, id := range r.toRemove {
		marked[id] = true
	}
	r.toRemove = r.toRemove[:0]

	removed := make([]string, 0, len(marked))
	kept := r.entities[:0]
	for _, e := range r.entities {
		if marked[e.ID] {
			removed = append(removed, e.ID)
			delete(r.byID, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(r.entities); i++ {
		r.entities[i] = nil
	}
	r.entities = kept
	return removed
}

// Reset 清空全部单位和ID计数
func (r *Registry) Reset() {
	r.nextSeq = 1
	r.counters = make(map[string]int)
	r.entities = nil
	r.byID = make(map[string]*Entity)
	r.toRemove = r.toRemove[:0]
}

// SortByDistance 按到 origin 的距离升序稳定排序，距离相同时按ID升序
func SortByDistance(list []*Entity, origin Vec2) {
	sort.SliceStable(list, func(i, j int) bool {
		di := origin.DistanceTo(list[i].Position)
		dj := origin.DistanceTo(list[j].Position)
		if di != dj {
			return di < dj
		}
		return list[i].ID < list[j].ID
	})
}
