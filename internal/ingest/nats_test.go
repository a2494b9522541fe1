package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/drift/internal/drain"
)

func TestAssignmentFromResult(t *testing.T) {
	res := drain.Result{
		ClusterID:  7,
		Template:   "User <NUM> login from <IP>",
		IsNew:      true,
		ChangeType: drain.ChangeClusterCreated,
		MatchCount: 1,
	}

	a := assignmentFromResult(res)
	assert.Equal(t, int64(7), a.ClusterID)
	assert.Equal(t, "User <NUM> login from <IP>", a.Template)
	assert.True(t, a.IsNew)
	assert.Equal(t, "cluster_created", a.ChangeType)
	assert.Equal(t, int64(1), a.MatchCount)
}

func TestAssignmentWireFormat(t *testing.T) {
	payload, err := json.Marshal(Assignment{
		ClusterID:  3,
		Template:   "service started",
		ChangeType: "none",
		MatchCount: 12,
	})
	require.NoError(t, err)

	// Field names are the wire contract consumed downstream; renaming
	// them is a breaking change.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	for _, field := range []string{"cluster_id", "template", "is_new", "change_type", "match_count"} {
		assert.Contains(t, decoded, field)
	}
}
