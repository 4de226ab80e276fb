package entity

import (
	"testing"

	"github.com/decker502/beanguard/pkg/config"
)

func TestRegistryOrderAndRemoval(t *testing.T) {
	r := NewRegistry()
	stats := config.Stats{MaxHP: 10}

	ids := []string{r.NextID("bean"), r.NextID("bean"), r.NextID("bean")}
	if ids[0] != "bean_1" || ids[2] != "bean_3" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	for _, id := range ids {
		if err := r.Add(New(id, KindBean, stats)); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}
	if err := r.Add(New("bean_2", KindBean, stats)); err == nil {
		t.Error("duplicate id should be rejected")
	}

	r.MarkForRemoval("bean_2")
	if r.Count(KindBean) != 3 {
		t.Error("marked entities must stay until RemoveMarked")
	}
	removed := r.RemoveMarked()
	if len(removed) != 1 || removed[0] != "bean_2" {
		t.Errorf("RemoveMarked: expected [bean_2], got %v", removed)
	}

	all := r.All()
	if len(all) != 2 || all[0].ID != "bean_1" || all[1].ID != "bean_3" {
		t.Errorf("creation order not preserved: %v", all)
	}
	if all[0].Seq >= all[1].Seq {
		t.Errorf("Seq must increase with creation order")
	}
	if _, ok := r.Get("bean_2"); ok {
		t.Error("removed entity still retrievable")
	}
}

func TestSortByDistanceTieBreak(t *testing.T) {
	a := New("b", KindBean, config.Stats{MaxHP: 1})
	a.Position = Vec2{X: 10}
	b := New("a", KindBean, config.Stats{MaxHP: 1})
	b.Position = Vec2{X: -10}
	c := New("c", KindBean, config.Stats{MaxHP: 1})
	c.Position = Vec2{Y: 5}

	list := []*Entity{a, b, c}
	SortByDistance(list, Vec2{})
	if list[0].ID != "c" || list[1].ID != "a" || list[2].ID != "b" {
		t.Errorf("expected order c,a,b got %s,%s,%s", list[0].ID, list[1].ID, list[2].ID)
	}
}
