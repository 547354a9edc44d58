package growbuf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Allocator kinds accepted by AllocatorConfig.Kind.
const (
	AllocatorHeap   = "heap"
	AllocatorArena  = "arena"
	AllocatorMapped = "mapped"
)

// Config sizes every container kind and selects the allocator behind them.
type Config struct {
	Allocator  AllocatorConfig `yaml:"allocator" mapstructure:"allocator"`
	Binary     BuilderConfig   `yaml:"binary" mapstructure:"binary"`
	Text       BuilderConfig   `yaml:"text" mapstructure:"text"`
	Strings    StringsConfig   `yaml:"strings" mapstructure:"strings"`
	Dictionary TableConfig     `yaml:"dictionary" mapstructure:"dictionary"`
	KeyMap     TableConfig     `yaml:"keymap" mapstructure:"keymap"`
	Vector     VectorConfig    `yaml:"vector" mapstructure:"vector"`
}

// AllocatorConfig selects and sizes the allocator.
type AllocatorConfig struct {
	Kind      string `yaml:"kind" mapstructure:"kind"`
	ChunkSize int    `yaml:"chunk_size" mapstructure:"chunk_size"` // arena only
	Budget    int    `yaml:"budget" mapstructure:"budget"`         // bytes; 0 = unlimited
}

// BuilderConfig sizes a binary or text builder.
type BuilderConfig struct {
	Capacity int     `yaml:"capacity" mapstructure:"capacity"`
	Rate     float64 `yaml:"rate" mapstructure:"rate"`
}

// StringsConfig sizes a string vector.
type StringsConfig struct {
	Count      int     `yaml:"count" mapstructure:"count"`
	BufferSize int     `yaml:"buffer_size" mapstructure:"buffer_size"`
	Rate       float64 `yaml:"rate" mapstructure:"rate"`
}

// TableConfig sizes a dictionary or key map.
type TableConfig struct {
	Count int     `yaml:"count" mapstructure:"count"`
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
}

// VectorConfig sizes an element vector.
type VectorConfig struct {
	ElemSize int     `yaml:"elem_size" mapstructure:"elem_size"`
	Count    int     `yaml:"count" mapstructure:"count"`
	Rate     float64 `yaml:"rate" mapstructure:"rate"`
}

// DefaultConfig returns the stock sizes: 200-byte builders, 10 strings in 100
// bytes, 30-entry tables and 30-record vectors, all growing by half.
func DefaultConfig() Config {
	return Config{
		Allocator:  AllocatorConfig{Kind: AllocatorHeap, ChunkSize: DefaultChunkSize},
		Binary:     BuilderConfig{Capacity: 200, Rate: 0.5},
		Text:       BuilderConfig{Capacity: 200, Rate: 0.5},
		Strings:    StringsConfig{Count: 10, BufferSize: 100, Rate: 0.5},
		Dictionary: TableConfig{Count: 30, Rate: 0.5},
		KeyMap:     TableConfig{Count: 30, Rate: 0.5},
		Vector:     VectorConfig{ElemSize: 8, Count: 30, Rate: 0.5},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. ${VAR} references are
// replaced with environment values before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("growbuf: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return Config{}, fmt.Errorf("growbuf: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...))
		}
	}
	rate := func(name string, r float64) {
		if err := validateRate(r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	switch c.Allocator.Kind {
	case AllocatorHeap, AllocatorArena, AllocatorMapped:
	default:
		check(false, "allocator.kind %q", c.Allocator.Kind)
	}
	check(c.Allocator.ChunkSize >= 0, "allocator.chunk_size %d", c.Allocator.ChunkSize)
	check(c.Allocator.Budget >= 0, "allocator.budget %d", c.Allocator.Budget)

	check(c.Binary.Capacity >= 0, "binary.capacity %d", c.Binary.Capacity)
	rate("binary.rate", c.Binary.Rate)
	check(c.Text.Capacity >= 0, "text.capacity %d", c.Text.Capacity)
	rate("text.rate", c.Text.Rate)
	check(c.Strings.Count >= 0, "strings.count %d", c.Strings.Count)
	check(c.Strings.BufferSize >= 0, "strings.buffer_size %d", c.Strings.BufferSize)
	rate("strings.rate", c.Strings.Rate)
	check(c.Dictionary.Count >= 0, "dictionary.count %d", c.Dictionary.Count)
	rate("dictionary.rate", c.Dictionary.Rate)
	check(c.KeyMap.Count >= 0, "keymap.count %d", c.KeyMap.Count)
	rate("keymap.rate", c.KeyMap.Rate)
	check(c.Vector.ElemSize > 0, "vector.elem_size %d", c.Vector.ElemSize)
	check(c.Vector.Count >= 0, "vector.count %d", c.Vector.Count)
	rate("vector.rate", c.Vector.Rate)

	return errors.Join(errs...)
}

// Build returns the configured allocator, wrapped in a BudgetAllocator when a
// budget is set.
func (c AllocatorConfig) Build() (Allocator, error) {
	var a Allocator
	switch c.Kind {
	case AllocatorHeap, "":
		a = HeapAllocator{}
	case AllocatorArena:
		a = NewArena(c.ChunkSize)
	case AllocatorMapped:
		a = MappedAllocator{}
	default:
		return nil, fmt.Errorf("%w: allocator kind %q", ErrInvalidArgument, c.Kind)
	}
	if c.Budget > 0 {
		a = NewBudgetAllocator(a, c.Budget)
	}
	return a, nil
}

func (c Config) options(opts []Option) ([]Option, error) {
	a, err := c.Allocator.Build()
	if err != nil {
		return nil, err
	}
	return append([]Option{WithAllocator(a)}, opts...), nil
}

// NewBinaryBuilder builds a BinaryBuilder from the binary section.
func (c Config) NewBinaryBuilder(opts ...Option) (*BinaryBuilder, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewBinaryBuilder(c.Binary.Capacity, c.Binary.Rate, o...)
}

// NewTextBuilder builds a TextBuilder from the text section.
func (c Config) NewTextBuilder(opts ...Option) (*TextBuilder, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewTextBuilder(c.Text.Capacity, c.Text.Rate, o...)
}

// NewStringVector builds a StringVector from the strings section.
func (c Config) NewStringVector(opts ...Option) (*StringVector, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewStringVector(c.Strings.Count, c.Strings.BufferSize, c.Strings.Rate, o...)
}

// NewDictionary builds a Dictionary from the dictionary section.
func (c Config) NewDictionary(opts ...Option) (*Dictionary, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewDictionary(c.Dictionary.Count, c.Dictionary.Rate, o...)
}

// NewKeyMap builds a KeyMap from the keymap section.
func (c Config) NewKeyMap(opts ...Option) (*KeyMap, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewKeyMap(c.KeyMap.Count, c.KeyMap.Rate, o...)
}

// NewVector builds a Vector from the vector section.
func (c Config) NewVector(opts ...Option) (*Vector, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	return NewVector(c.Vector.ElemSize, c.Vector.Count, c.Vector.Rate, o...)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start
		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
