package model

import "time"

// Config holds the complete pipeline configuration
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Data        DataConfig        `yaml:"data" mapstructure:"data"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Resolver    ResolverConfig    `yaml:"resolver" mapstructure:"resolver"`
	Disambig    DisambigConfig    `yaml:"disambig" mapstructure:"disambig"`
	Aliases     AliasConfig       `yaml:"aliases" mapstructure:"aliases"`
}

// CorpusConfig locates the tagged chapter files
type CorpusConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	Pattern       string   `yaml:"pattern" mapstructure:"pattern"`
	TableChapters []string `yaml:"table_chapters" mapstructure:"table_chapters"` // Skipped by the year scan
}

// DataConfig points at curated YAML files. Empty paths use the embedded defaults.
type DataConfig struct {
	Rulers   string `yaml:"rulers" mapstructure:"rulers"`
	Titles   string `yaml:"titles" mapstructure:"titles"`
	Chapters string `yaml:"chapters" mapstructure:"chapters"`
}

// OutputConfig controls persisted artifacts
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	HTML    bool   `yaml:"html" mapstructure:"html"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// CacheConfig controls the parsed reign-table cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls per-chapter parallelism of the resolution phase
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ResolverConfig tunes the year-mention resolver
type ResolverConfig struct {
	Window          int    `yaml:"window" mapstructure:"window"`                     // Characters scanned backward for a ruler name
	Tolerance       int    `yaml:"tolerance" mapstructure:"tolerance"`               // Years of slack on reign windows
	MaxRecoverYear  int    `yaml:"max_recover_year" mapstructure:"max_recover_year"` // Largest reign year eligible for recovery
	DurationMarkers string `yaml:"duration_markers" mapstructure:"duration_markers"` // Characters marking elapsed-duration context
	ContextChars    int    `yaml:"context_chars" mapstructure:"context_chars"`       // Characters before a mention checked for markers
}

// DisambigConfig sets the character windows of the short-title cascade
type DisambigConfig struct {
	PrecedingWindow int `yaml:"preceding_window" mapstructure:"preceding_window"`
	NearbyWindow    int `yaml:"nearby_window" mapstructure:"nearby_window"`
	NarrowWindow    int `yaml:"narrow_window" mapstructure:"narrow_window"`
	CooccurWindow   int `yaml:"cooccur_window" mapstructure:"cooccur_window"`
}

// AliasConfig controls alias validation
type AliasConfig struct {
	Strict bool `yaml:"strict" mapstructure:"strict"` // Abort the build on alias collisions
}

// DefaultConfig returns the defaults used when no config file is present
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:     "chapter_md",
			Pattern: "*.tagged.md",
			TableChapters: []string{
				"013", "014", "015", "016", "017", "018", "019", "020", "021", "022",
			},
		},
		Output: OutputConfig{
			Dir:  "build",
			HTML: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".shiji-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Resolver: ResolverConfig{
			Window:          60,
			Tolerance:       5,
			MaxRecoverYear:  60,
			DurationMarkers: "立居历凡共在生国",
			ContextChars:    3,
		},
		Disambig: DisambigConfig{
			PrecedingWindow: 10,
			NearbyWindow:    80,
			NarrowWindow:    120,
			CooccurWindow:   200,
		},
	}
}
