package drain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func trainedEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t, DefaultConfig())
	lines := []string{
		"User 42 login from 10.0.0.1",
		"User 99 login from 10.0.0.9",
		"connection to 172.16.0.1 timed out after 30 ms",
		"service started",
		"disk usage at 91 percent on /dev/sda1",
		"User 11 logout from 10.0.0.1",
	}
	for _, line := range lines {
		e.AddLogMessage(line)
	}
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := trainedEngine(t)

	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	restored := newTestEngine(t, DefaultConfig())
	if err := restored.LoadSnapshot(data); err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if !reflect.DeepEqual(original.Clusters(), restored.Clusters()) {
		t.Error("cluster sets differ after round trip")
	}

	probes := []string{
		"User 7 login from 192.168.1.1",
		"connection to 10.1.1.1 timed out after 99 ms",
		"service started",
		"never seen shape",
		"",
	}
	for _, probe := range probes {
		wantID, wantOK := original.Match(probe)
		gotID, gotOK := restored.Match(probe)
		if wantID != gotID || wantOK != gotOK {
			t.Errorf("Match(%q) = (%d, %v) restored vs (%d, %v) original",
				probe, gotID, gotOK, wantID, wantOK)
		}
	}

	// Training continues with the restored id counter: new clusters must
	// not collide with loaded ids.
	res := restored.AddLogMessage("brand new template shape appearing")
	if !res.IsNew {
		t.Fatal("expected a new cluster after restore")
	}
	for _, c := range original.Clusters() {
		if c.ID == res.ClusterID {
			t.Errorf("restored engine reused cluster id %d", res.ClusterID)
		}
	}
}

func TestSnapshotCorruptData(t *testing.T) {
	e := trainedEngine(t)
	before, _ := e.Serialize()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not json", []byte("definitely not json"), ErrCorruptState},
		{"wrong version", mustMarshal(t, map[string]any{"version": 99}), ErrVersionMismatch},
		{"zero cluster id", corruptedSnapshot(t, func(s *snapshot) {
			s.Clusters[0].ID = 0
		}), ErrCorruptState},
		{"duplicate cluster id", corruptedSnapshot(t, func(s *snapshot) {
			s.Clusters[1].ID = s.Clusters[0].ID
		}), ErrCorruptState},
		{"id beyond counter", corruptedSnapshot(t, func(s *snapshot) {
			s.Clusters[0].ID = s.NextID + 10
		}), ErrCorruptState},
		{"empty template", corruptedSnapshot(t, func(s *snapshot) {
			s.Clusters[0].Template = nil
		}), ErrCorruptState},
		{"zero match count", corruptedSnapshot(t, func(s *snapshot) {
			s.Clusters[0].Matches = 0
		}), ErrCorruptState},
		{"invalid embedded config", corruptedSnapshot(t, func(s *snapshot) {
			s.Config.MaxDepth = 0
		}), ErrCorruptState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.LoadSnapshot(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadSnapshot() error = %v, want %v", err, tt.want)
			}

			// A refused load must leave current state untouched.
			after, serr := e.Serialize()
			if serr != nil {
				t.Fatalf("Serialize() error = %v", serr)
			}
			if string(before) != string(after) {
				t.Error("failed load modified engine state")
			}
		})
	}
}

func TestSnapshotCarriesConfig(t *testing.T) {
	cfg := bareConfig()
	cfg.SimThreshold = 0.7
	cfg.MaxDepth = 5
	e := newTestEngine(t, cfg)
	e.AddLogMessage("alpha beta gamma delta")

	data, err := e.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// Loading adopts the snapshot's config, not the receiver's.
	restored := newTestEngine(t, DefaultConfig())
	if err := restored.LoadSnapshot(data); err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if got := restored.Config().SimThreshold; got != 0.7 {
		t.Errorf("restored SimThreshold = %g, want 0.7", got)
	}
	if got := restored.Config().MaxDepth; got != 5 {
		t.Errorf("restored MaxDepth = %d, want 5", got)
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func corruptedSnapshot(t *testing.T, mutate func(*snapshot)) []byte {
	t.Helper()
	e := trainedEngine(t)
	data, err := e.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mutate(&snap)
	return mustMarshal(t, snap)
}
