package drain

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bimmerbailey/drift/internal/mask"
)

// Config holds the parameters the engine is built with. Everything
// here is captured in snapshots so a restarted engine routes exactly
// like the one that wrote the state.
type Config struct {
	// MaxDepth bounds the parse tree: one token-count level plus up to
	// MaxDepth-2 token levels. Must be >= 2.
	MaxDepth int `json:"max_depth"`

	// SimThreshold in (0,1); a candidate scoring exactly the threshold
	// qualifies.
	SimThreshold float64 `json:"sim_threshold"`

	// MaxDifferingParams caps how many literal positions one merge may
	// wildcard. A line that would blow past it founds a new cluster
	// instead of degrading an established template.
	MaxDifferingParams int `json:"max_differing_params"`

	// MaxChildren caps children per tree node.
	MaxChildren int `json:"max_children"`

	// MaxClustersPerLeaf, when > 0, enables LRU eviction in full leaves.
	MaxClustersPerLeaf int `json:"max_clusters_per_leaf"`

	// Delimiters are the tokenization split characters.
	Delimiters string `json:"delimiters"`

	// MaskRules run in order against each raw line before tokenization.
	MaskRules []mask.Rule `json:"mask_rules"`
}

// DefaultConfig returns the engine defaults: depth 4, threshold 0.4,
// whitespace tokenization, and the standard masking rules.
func DefaultConfig() Config {
	rules := make([]mask.Rule, 0, len(mask.DefaultRuleNames()))
	for _, name := range mask.DefaultRuleNames() {
		builtIn := mask.BuiltInRules[name]
		rules = append(rules, mask.Rule{Pattern: builtIn.Pattern, Name: builtIn.Token})
	}
	return Config{
		MaxDepth:           4,
		SimThreshold:       0.4,
		MaxDifferingParams: 4,
		MaxChildren:        100,
		Delimiters:         " \t",
		MaskRules:          rules,
	}
}

func (c Config) validate() error {
	if c.MaxDepth < 2 {
		return fmt.Errorf("max depth must be >= 2, got %d", c.MaxDepth)
	}
	if c.SimThreshold <= 0 || c.SimThreshold >= 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1), got %g", c.SimThreshold)
	}
	if c.MaxDifferingParams < 0 {
		return fmt.Errorf("max differing params must be >= 0, got %d", c.MaxDifferingParams)
	}
	if c.MaxChildren < 1 {
		return fmt.Errorf("max children must be >= 1, got %d", c.MaxChildren)
	}
	if c.MaxClustersPerLeaf < 0 {
		return fmt.Errorf("max clusters per leaf must be >= 0, got %d", c.MaxClustersPerLeaf)
	}
	if c.Delimiters == "" {
		return fmt.Errorf("delimiters must not be empty")
	}
	return nil
}

// ChangeType describes what a training call did to engine state.
type ChangeType string

const (
	ChangeNone            ChangeType = "none"
	ChangeClusterCreated  ChangeType = "cluster_created"
	ChangeTemplateChanged ChangeType = "cluster_template_changed"
)

// Result is the outcome of one AddLogMessage call.
type Result struct {
	ClusterID  int64      `json:"cluster_id"`
	Template   string     `json:"template"`
	IsNew      bool       `json:"is_new"`
	ChangeType ChangeType `json:"change_type"`
	MatchCount int64      `json:"match_count"`

	// Skipped is set for lines that tokenize to nothing. They are a
	// no-op, not an error: blank lines are expected in real streams.
	Skipped bool `json:"skipped,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for engine events. Default is no-op.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// Engine is the stateful template miner. It owns the parse tree and
// the cluster registry; tree leaves hold cluster ids, never pointers,
// so the registry is the single owner of every cluster.
type Engine struct {
	mu       sync.RWMutex
	cfg      Config
	masker   *mask.Masker
	tree     *tree
	clusters map[int64]*Cluster
	nextID   int64
	log      zerolog.Logger
}

// New builds an engine. Invalid parameters or malformed masking rules
// fail here; per-line calls never fail.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	masker, err := mask.New(cfg.MaskRules)
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		masker:   masker,
		tree:     newTree(cfg.MaxDepth, cfg.MaxChildren, cfg.MaxClustersPerLeaf),
		clusters: make(map[int64]*Cluster),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the parameters the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// tokenize splits a masked line on the configured delimiters, dropping
// empty tokens.
func (e *Engine) tokenize(masked string) []string {
	return strings.FieldsFunc(masked, func(r rune) bool {
		return strings.ContainsRune(e.cfg.Delimiters, r)
	})
}

// AddLogMessage is the training path: it assigns the line to an
// existing cluster (generalizing its template as needed) or founds a
// new one. At most one call runs at a time.
func (e *Engine) AddLogMessage(raw string) Result {
	tokens := e.tokenize(e.masker.Mask(raw))
	if len(tokens) == 0 {
		return Result{ChangeType: ChangeNone, Skipped: true}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if leaf := e.tree.lookup(tokens); leaf != nil {
		if c := e.bestMatch(tokens, leaf.clusterIDs); c != nil {
			changed := e.merge(c, tokens)
			c.Matches++
			leaf.touch(c.ID)

			change := ChangeNone
			if changed {
				change = ChangeTemplateChanged
				e.log.Debug().Int64("cluster_id", c.ID).Str("template", c.TemplateString()).
					Msg("template generalized")
			}
			return Result{
				ClusterID:  c.ID,
				Template:   c.TemplateString(),
				ChangeType: change,
				MatchCount: c.Matches,
			}
		}
	}

	c := e.createCluster(tokens)
	return Result{
		ClusterID:  c.ID,
		Template:   c.TemplateString(),
		IsNew:      true,
		ChangeType: ChangeClusterCreated,
		MatchCount: c.Matches,
	}
}

// Match is the inference path: identical masking, tokenization,
// routing, and scoring, but it never creates a cluster or mutates any
// state. Safe to call concurrently with other Match calls.
func (e *Engine) Match(raw string) (int64, bool) {
	tokens := e.tokenize(e.masker.Mask(raw))
	if len(tokens) == 0 {
		return 0, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	leaf := e.tree.lookup(tokens)
	if leaf == nil {
		return 0, false
	}
	if c := e.bestMatch(tokens, leaf.clusterIDs); c != nil {
		return c.ID, true
	}
	return 0, false
}

// bestMatch returns the first candidate, in leaf order, that clears
// both the similarity threshold and the differing-parameter bound.
// Leaf order is most-recently-matched first, so ties favor the hottest
// cluster and make selection deterministic.
func (e *Engine) bestMatch(tokens []string, candidateIDs []int64) *Cluster {
	for _, id := range candidateIDs {
		c, ok := e.clusters[id]
		if !ok || len(c.Template) != len(tokens) {
			continue
		}
		sim, diffs := similarity(c.Template, tokens)
		if sim >= e.cfg.SimThreshold && diffs <= e.cfg.MaxDifferingParams {
			return c
		}
	}
	return nil
}

// similarity scores tokens against a template of equal length. The
// score is literal agreements over non-wildcard template positions;
// wildcards neither help nor hurt. diffs counts the literal positions
// that disagree, i.e. the wildcards a merge would introduce. An
// all-wildcard template scores 1 against anything.
func similarity(template, tokens []string) (sim float64, diffs int) {
	literals := 0
	agreements := 0
	for i, tt := range template {
		if tt == Wildcard {
			continue
		}
		literals++
		if tt == tokens[i] {
			agreements++
		} else {
			diffs++
		}
	}
	if literals == 0 {
		return 1, 0
	}
	return float64(agreements) / float64(literals), diffs
}

// merge wildcards every template position that disagrees with the
// incoming tokens. Generalization only ever adds wildcards.
func (e *Engine) merge(c *Cluster, tokens []string) bool {
	changed := false
	for i, tt := range c.Template {
		if tt != Wildcard && tt != tokens[i] {
			c.Template[i] = Wildcard
			changed = true
		}
	}
	return changed
}

func (e *Engine) createCluster(tokens []string) *Cluster {
	e.nextID++
	template := make([]string, len(tokens))
	copy(template, tokens)

	c := &Cluster{ID: e.nextID, Template: template, Matches: 1}
	e.clusters[c.ID] = c

	_, evicted := e.tree.insert(tokens, c.ID)
	if evicted != 0 {
		delete(e.clusters, evicted)
		e.log.Debug().Int64("cluster_id", evicted).Msg("cluster evicted from full leaf")
	}

	e.log.Debug().Int64("cluster_id", c.ID).Str("template", c.TemplateString()).
		Msg("cluster created")
	return c
}

// Cluster returns a copy of the cluster with the given id.
func (e *Engine) Cluster(id int64) (Cluster, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.clusters[id]
	if !ok {
		return Cluster{}, false
	}
	return c.clone(), true
}

// ClusterCount returns the number of live clusters.
func (e *Engine) ClusterCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clusters)
}

// Clusters returns deep copies of all clusters, most-matched first and
// by ascending id among equals.
func (e *Engine) Clusters() []Cluster {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Cluster, 0, len(e.clusters))
	for _, c := range e.clusters {
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].ID < out[j].ID
	})
	return out
}
