package drain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SnapshotVersion tags the serialized format. Bump on any change that
// older readers cannot decode.
const SnapshotVersion = 1

// The tree is not serialized: it is rebuilt on load by replaying each
// cluster's template through the same insertion path, which is
// deterministic given the captured config.
type snapshot struct {
	Version  int               `json:"version"`
	Config   Config            `json:"config"`
	NextID   int64             `json:"next_id"`
	Clusters []snapshotCluster `json:"clusters"`
}

type snapshotCluster struct {
	ID       int64    `json:"id"`
	Template []string `json:"template"`
	Matches  int64    `json:"matches"`
}

// Serialize captures the full engine state as a versioned payload.
// Works from a read lock so training stalls only for the copy.
func (e *Engine) Serialize() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := snapshot{
		Version:  SnapshotVersion,
		Config:   e.cfg,
		NextID:   e.nextID,
		Clusters: make([]snapshotCluster, 0, len(e.clusters)),
	}
	// Ascending id order keeps the payload stable byte-for-byte for
	// identical state.
	for _, c := range e.clusters {
		copied := c.clone()
		snap.Clusters = append(snap.Clusters, snapshotCluster{
			ID:       copied.ID,
			Template: copied.Template,
			Matches:  copied.Matches,
		})
	}
	sortByID(snap.Clusters)

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}
	return data, nil
}

func sortByID(clusters []snapshotCluster) {
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })
}

// LoadSnapshot replaces the engine's state with the decoded snapshot.
// The swap is all-or-nothing: any decode or validation failure leaves
// the current state untouched.
func (e *Engine) LoadSnapshot(data []byte) error {
	var version struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &version); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if version.Version != SnapshotVersion {
		return fmt.Errorf("%w: snapshot has version %d, engine reads %d",
			ErrVersionMismatch, version.Version, SnapshotVersion)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	// Build a complete replacement engine before touching live state.
	restored, err := New(snap.Config, WithLogger(e.log))
	if err != nil {
		return fmt.Errorf("%w: embedded config invalid: %v", ErrCorruptState, err)
	}

	sortByID(snap.Clusters)
	seen := make(map[int64]bool, len(snap.Clusters))
	for _, sc := range snap.Clusters {
		switch {
		case sc.ID <= 0:
			return fmt.Errorf("%w: cluster id %d", ErrCorruptState, sc.ID)
		case sc.ID > snap.NextID:
			return fmt.Errorf("%w: cluster id %d exceeds id counter %d",
				ErrCorruptState, sc.ID, snap.NextID)
		case seen[sc.ID]:
			return fmt.Errorf("%w: duplicate cluster id %d", ErrCorruptState, sc.ID)
		case len(sc.Template) == 0:
			return fmt.Errorf("%w: cluster %d has empty template", ErrCorruptState, sc.ID)
		case sc.Matches < 1:
			return fmt.Errorf("%w: cluster %d has match count %d",
				ErrCorruptState, sc.ID, sc.Matches)
		}
		seen[sc.ID] = true

		template := make([]string, len(sc.Template))
		copy(template, sc.Template)
		restored.clusters[sc.ID] = &Cluster{ID: sc.ID, Template: template, Matches: sc.Matches}
		if _, evicted := restored.tree.insert(template, sc.ID); evicted != 0 {
			delete(restored.clusters, evicted)
		}
	}
	restored.nextID = snap.NextID

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = restored.cfg
	e.masker = restored.masker
	e.tree = restored.tree
	e.clusters = restored.clusters
	e.nextID = restored.nextID

	e.log.Info().Int("clusters", len(e.clusters)).Int64("next_id", e.nextID).
		Msg("snapshot loaded")
	return nil
}
