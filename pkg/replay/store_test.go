package replay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建测试用 gdata Manager，失败时返回 nil
func createTestGdataManager(t *testing.T) *gdata.Manager {
	appName := fmt.Sprintf("beanguard_replay_test_%d", time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return manager
}

func TestStoreSaveLoad(t *testing.T) {
	doc, err := Record(newTestStore(t), testParams(), 12345, testScript(), 5000, 50)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	tests := []struct {
		name    string
		manager func(t *testing.T) *gdata.Manager
	}{
		{name: "降级模式", manager: func(*testing.T) *gdata.Manager { return nil }},
		{name: "gdata 持久化", manager: createTestGdataManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := tt.manager(t)
			if tt.name != "降级模式" && manager == nil {
				t.Skip("gdata not available")
			}
			store := NewStore(manager)

			if err := store.Save(doc); err != nil {
				t.Fatalf("Save: %v", err)
			}
			// 再次保存同一录像只更新索引条目
			if err := store.Save(doc); err != nil {
				t.Fatalf("Save again: %v", err)
			}

			loaded, err := store.Load(doc.ReplayID)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if loaded.RandomSeed != doc.RandomSeed || len(loaded.Events) != len(doc.Events) {
				t.Errorf("loaded replay differs from saved one")
			}
			if err := Compare(doc.Events, loaded.Events); err != nil {
				t.Errorf("events changed by storage: %v", err)
			}

			list := store.List()
			if len(list) != 1 || list[0].ID != doc.ReplayID || list[0].Seed != 12345 {
				t.Errorf("unexpected index %+v", list)
			}

			if _, err := store.Load("missing"); !errors.Is(err, ErrReplayNotFound) {
				t.Errorf("expected ErrReplayNotFound, got %v", err)
			}

			if manager != nil {
				reopened := NewStore(manager)
				if got := reopened.List(); len(got) != 1 || got[0].ID != doc.ReplayID {
					t.Errorf("index not persisted: %+v", got)
				}
			}
		})
	}
}

func TestStoreRejectsMissingID(t *testing.T) {
	if err := NewStore(nil).Save(&Document{}); err == nil {
		t.Error("expected error for replay without id")
	}
}
