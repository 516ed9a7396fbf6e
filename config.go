package permit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

// Config is the complete engine configuration, loaded once at process start.
// Grants override or extend the compiled-in table.
type Config struct {
	Version uint16        `json:"version" yaml:"version"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Grants  []GrantConfig `json:"grants" yaml:"grants"`
}

// EngineConfig tunes runtime knobs; zero values keep defaults.
type EngineConfig struct {
	EnrichWorkerCount   int   `json:"enrich_worker_count" yaml:"enrich_worker_count"`
	AuditBuffer         int   `json:"audit_buffer" yaml:"audit_buffer"`
	ScopeCacheTTL       int64 `json:"scope_cache_ttl_ms" yaml:"scope_cache_ttl_ms"`
	RistrettoNumCounter int64 `json:"ristretto_num_counter" yaml:"ristretto_num_counter"`
	RistrettoMaxCost    int64 `json:"ristretto_max_cost" yaml:"ristretto_max_cost"`
	RistrettoBuffer     int64 `json:"ristretto_buffer" yaml:"ristretto_buffer"`
}

// GrantConfig declares one (role, entity, action) grant. Filters is an AND of
// OR-groups of filter kind names.
type GrantConfig struct {
	Role       string     `json:"role" yaml:"role"`
	Entity     string     `json:"entity" yaml:"entity"`
	Action     string     `json:"action" yaml:"action"`
	Authorized bool       `json:"authorized" yaml:"authorized"`
	Fields     []string   `json:"fields" yaml:"fields"`
	Filters    [][]string `json:"filters" yaml:"filters"`
}

// ConfigLoader loads configuration from various formats
type ConfigLoader struct{}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

func (l *ConfigLoader) LoadYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *ConfigLoader) LoadJSON(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile picks the decoder from the file extension.
func (l *ConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.LoadYAML(data)
	case ".json":
		return l.LoadJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}

// ToYAML exports config to YAML
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ToJSON exports config to JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Validate checks that every grant references known roles, entities, actions
// and filter kinds, that no filter group is empty (an empty OR-group would
// deny unconditionally), and that no (role, entity, action) triple is
// declared twice.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Grants))
	for i, g := range c.Grants {
		if !Role(g.Role).Valid() {
			return fmt.Errorf("grant %d: unknown role %q", i, g.Role)
		}
		if !Entity(g.Entity).Valid() {
			return fmt.Errorf("grant %d: unknown entity %q", i, g.Entity)
		}
		if !Action(g.Action).Valid() {
			return fmt.Errorf("grant %d: unknown action %q", i, g.Action)
		}
		key := g.Role + "/" + g.Entity + "/" + g.Action
		if _, dup := seen[key]; dup {
			return fmt.Errorf("grant %d: duplicate grant for %s", i, key)
		}
		seen[key] = struct{}{}
		for _, group := range g.Filters {
			if len(group) == 0 {
				return fmt.Errorf("grant %d: empty filter group", i)
			}
			for _, kind := range group {
				if !FilterKind(kind).Valid() {
					return fmt.Errorf("grant %d: unknown filter kind %q", i, kind)
				}
			}
		}
	}
	if c.Engine.EnrichWorkerCount < 0 {
		return fmt.Errorf("enrich_worker_count must not be negative")
	}
	return nil
}

// GrantTable builds the effective table: compiled-in defaults with the
// configured grants applied on top.
func (c *Config) GrantTable() (*GrantTable, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	t := DefaultGrantTable()
	for _, g := range c.Grants {
		refs := make([][]FilterKind, 0, len(g.Filters))
		for _, group := range g.Filters {
			kinds := make([]FilterKind, 0, len(group))
			for _, kind := range group {
				kinds = append(kinds, FilterKind(kind))
			}
			refs = append(refs, kinds)
		}
		t.Set(Role(g.Role), Entity(g.Entity), Action(g.Action), StaticGrant{
			Authorized: g.Authorized,
			Fields:     g.Fields,
			FilterRefs: refs,
		})
	}
	return t, nil
}

// ApplyConfig applies configuration to a constructed engine: grant overrides
// and worker sizing. Store-side cache knobs (ScopeCacheTTL, ristretto sizing)
// are consumed by the stores package when building a cached scope store.
func (e *Engine) ApplyConfig(cfg *Config) error {
	table, err := cfg.GrantTable()
	if err != nil {
		return err
	}
	e.grants = table
	if cfg.Engine.EnrichWorkerCount > 0 {
		e.enrichWorkers = cfg.Engine.EnrichWorkerCount
	}
	return nil
}
