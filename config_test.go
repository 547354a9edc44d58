package growbuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, AllocatorHeap, cfg.Allocator.Kind)
	assert.Equal(t, BuilderConfig{Capacity: 200, Rate: 0.5}, cfg.Binary)
	assert.Equal(t, BuilderConfig{Capacity: 200, Rate: 0.5}, cfg.Text)
	assert.Equal(t, StringsConfig{Count: 10, BufferSize: 100, Rate: 0.5}, cfg.Strings)
	assert.Equal(t, TableConfig{Count: 30, Rate: 0.5}, cfg.Dictionary)
	assert.Equal(t, TableConfig{Count: 30, Rate: 0.5}, cfg.KeyMap)
	assert.Equal(t, VectorConfig{ElemSize: 8, Count: 30, Rate: 0.5}, cfg.Vector)
}

func TestParseConfig(t *testing.T) {
	t.Setenv("GROWBUF_TEST_BUDGET", "4096")

	cfg, err := ParseConfig([]byte(`
allocator:
  kind: mapped
  budget: ${GROWBUF_TEST_BUDGET}
strings:
  count: 4
  buffer_size: 64
vector:
  elem_size: 16
  rate: 0
`))
	require.NoError(t, err)

	assert.Equal(t, AllocatorMapped, cfg.Allocator.Kind)
	assert.Equal(t, 4096, cfg.Allocator.Budget)
	assert.Equal(t, StringsConfig{Count: 4, BufferSize: 64, Rate: 0.5}, cfg.Strings, "unset fields keep defaults")
	assert.Equal(t, VectorConfig{ElemSize: 16, Count: 30, Rate: 0}, cfg.Vector)
	assert.Equal(t, 200, cfg.Text.Capacity)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown allocator", "allocator: {kind: pool}", `allocator.kind "pool"`},
		{"negative capacity", "binary: {capacity: -1}", "binary.capacity -1"},
		{"negative rate", "text: {rate: -0.5}", "text.rate"},
		{"zero element size", "vector: {elem_size: 0}", "vector.elem_size 0"},
		{"negative budget", "allocator: {budget: -1}", "allocator.budget -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := ParseConfig([]byte("binary: [not, a, map]"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dictionary.Count = -1
	cfg.KeyMap.Rate = -1

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "dictionary.count -1")
	assert.Contains(t, err.Error(), "keymap.rate")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growbuf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dictionary:\n  count: 5\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Dictionary.Count)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestAllocatorConfigBuild(t *testing.T) {
	tests := []struct {
		name  string
		cfg   AllocatorConfig
		check func(t *testing.T, a Allocator)
	}{
		{"heap", AllocatorConfig{Kind: AllocatorHeap}, func(t *testing.T, a Allocator) {
			assert.IsType(t, HeapAllocator{}, a)
		}},
		{"empty kind", AllocatorConfig{}, func(t *testing.T, a Allocator) {
			assert.IsType(t, HeapAllocator{}, a)
		}},
		{"arena", AllocatorConfig{Kind: AllocatorArena, ChunkSize: 512}, func(t *testing.T, a Allocator) {
			require.IsType(t, &Arena{}, a)
			assert.Equal(t, 512, a.(*Arena).ChunkSize())
		}},
		{"mapped", AllocatorConfig{Kind: AllocatorMapped}, func(t *testing.T, a Allocator) {
			assert.IsType(t, MappedAllocator{}, a)
		}},
		{"budgeted", AllocatorConfig{Kind: AllocatorArena, Budget: 128}, func(t *testing.T, a Allocator) {
			require.IsType(t, &BudgetAllocator{}, a)
			assert.Equal(t, 128, a.(*BudgetAllocator).Limit())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.cfg.Build()
			require.NoError(t, err)
			tt.check(t, a)
		})
	}

	_, err := AllocatorConfig{Kind: "pool"}.Build()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestConfigFactories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Allocator = AllocatorConfig{Kind: AllocatorArena, ChunkSize: 4096}

	b, err := cfg.NewBinaryBuilder()
	require.NoError(t, err)
	assert.Equal(t, 200, b.Cap())
	assert.Equal(t, 0.5, b.ExpansionRate())

	tb, err := cfg.NewTextBuilder()
	require.NoError(t, err)
	assert.Equal(t, 201, tb.Cap())

	v, err := cfg.NewStringVector()
	require.NoError(t, err)
	assert.Equal(t, 100, v.Metrics().Capacity)
	assert.Equal(t, 10, v.IndexMetrics().Capacity)

	d, err := cfg.NewDictionary()
	require.NoError(t, err)
	assert.Equal(t, 30, d.Cap())

	m, err := cfg.NewKeyMap()
	require.NoError(t, err)
	assert.Equal(t, 30, m.Metrics().Capacity)

	vec, err := cfg.NewVector()
	require.NoError(t, err)
	assert.Equal(t, 30, vec.Cap())
	assert.Equal(t, 8, vec.ElemSize())

	// Options passed to a factory apply on top of the configured allocator.
	var seen []Relocation
	small := cfg
	small.Binary.Capacity = 1
	b, err = small.NewBinaryBuilder(WithRelocationHook(func(r Relocation) { seen = append(seen, r) }))
	require.NoError(t, err)
	_, err = b.WriteString("grow")
	require.NoError(t, err)
	assert.Len(t, seen, 1)

	bad := cfg
	bad.Allocator.Kind = "pool"
	_, err = bad.NewDictionary()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("GROWBUF_TEST_KIND", "arena")
	assert.Equal(t, "kind: arena", substituteEnvVars("kind: ${GROWBUF_TEST_KIND}"))
	assert.Equal(t, "kind: ", substituteEnvVars("kind: ${GROWBUF_TEST_UNSET_VAR}"))
	assert.Equal(t, "kind: ${open", substituteEnvVars("kind: ${open"))
	assert.Equal(t, "a arena b arena", substituteEnvVars("a ${GROWBUF_TEST_KIND} b ${GROWBUF_TEST_KIND}"))
}
