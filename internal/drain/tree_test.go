package drain

import (
	"reflect"
	"testing"
)

func TestBranchKey(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"login", "login"},
		{"<NUM>", Wildcard},
		{"<IP>", Wildcard},
		{Wildcard, Wildcard},
		{"error404", Wildcard}, // digit-bearing tokens share the wildcard branch
		{"worker-3", Wildcard},
		{"/var/log/app.log", "/var/log/app.log"},
	}

	for _, tt := range tests {
		if got := branchKey(tt.token); got != tt.want {
			t.Errorf("branchKey(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestLeafRecencyOrdering(t *testing.T) {
	tr := newTree(2, 100, 0) // depth 2: one leaf per token count

	leaf, _ := tr.insert([]string{"a", "b"}, 1)
	tr.insert([]string{"c", "d"}, 2)
	tr.insert([]string{"e", "f"}, 3)

	if want := []int64{3, 2, 1}; !reflect.DeepEqual(leaf.clusterIDs, want) {
		t.Fatalf("leaf order = %v, want %v", leaf.clusterIDs, want)
	}

	// A match moves the cluster to the front.
	leaf.touch(1)
	if want := []int64{1, 3, 2}; !reflect.DeepEqual(leaf.clusterIDs, want) {
		t.Errorf("after touch(1): %v, want %v", leaf.clusterIDs, want)
	}

	// Touching the front is a no-op.
	leaf.touch(1)
	if want := []int64{1, 3, 2}; !reflect.DeepEqual(leaf.clusterIDs, want) {
		t.Errorf("after second touch(1): %v, want %v", leaf.clusterIDs, want)
	}
}

func TestTreeLazyCreation(t *testing.T) {
	tr := newTree(4, 100, 0)

	if tr.lookup([]string{"never", "inserted", "line"}) != nil {
		t.Error("lookup on empty tree returned a leaf")
	}

	tr.insert([]string{"never", "inserted", "line"}, 1)
	leaf := tr.lookup([]string{"never", "inserted", "anything"})
	if leaf == nil {
		t.Fatal("lookup failed after insert; only the first two tokens route")
	}
	if len(leaf.clusterIDs) != 1 || leaf.clusterIDs[0] != 1 {
		t.Errorf("leaf holds %v", leaf.clusterIDs)
	}
}
