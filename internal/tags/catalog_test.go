package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Canonicalize(t *testing.T) {
	r := NewDefaultRegistry()

	t.Run("key passes through", func(t *testing.T) {
		assert.Equal(t, "im", r.Canonicalize(CategoryRotation, "im"))
	})

	t.Run("label maps to key", func(t *testing.T) {
		assert.Equal(t, "im", r.Canonicalize(CategoryRotation, "Internal Medicine"))
	})

	t.Run("alias maps to key case-insensitively", func(t *testing.T) {
		assert.Equal(t, "obgyn", r.Canonicalize(CategoryRotation, "OB-GYN"))
		assert.Equal(t, "peds", r.Canonicalize(CategoryRotation, "PEDIATRICS"))
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		assert.Equal(t, "gs", r.Canonicalize(CategoryRotation, "  general surgery  "))
	})

	t.Run("unknown value survives trimmed", func(t *testing.T) {
		assert.Equal(t, "dermatology elective", r.Canonicalize(CategoryRotation, " dermatology elective "))
	})

	t.Run("blank yields empty", func(t *testing.T) {
		assert.Equal(t, "", r.Canonicalize(CategoryRotation, "   "))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, raw := range []string{"im", "Internal Medicine", "ob-gyn", "unknown thing"} {
			once := r.Canonicalize(CategoryRotation, raw)
			assert.Equal(t, once, r.Canonicalize(CategoryRotation, once), "input %q", raw)
		}
	})
}

func TestRegistry_Expand(t *testing.T) {
	r := NewDefaultRegistry()

	t.Run("includes raw, key, label and aliases", func(t *testing.T) {
		values := r.Expand(CategoryRotation, []string{"Internal Medicine"})
		assert.Contains(t, values, "Internal Medicine")
		assert.Contains(t, values, "im")
		assert.Contains(t, values, "internal medicine")
	})

	t.Run("deduplicates across inputs", func(t *testing.T) {
		values := r.Expand(CategoryRotation, []string{"im", "Internal Medicine"})
		seen := make(map[string]int)
		for _, v := range values {
			seen[v]++
		}
		for v, count := range seen {
			assert.Equal(t, 1, count, "value %q duplicated", v)
		}
	})

	t.Run("unknown values pass through unexpanded", func(t *testing.T) {
		values := r.Expand(CategoryRotation, []string{"elective"})
		assert.Equal(t, []string{"elective"}, values)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, r.Expand(CategoryRotation, nil))
	})
}

func TestRegistry_RotationValues(t *testing.T) {
	values := NewDefaultRegistry().RotationValues()

	for _, want := range []string{"im", "internal medicine", "ob-gyn", "gs2", "family medicine"} {
		_, ok := values[want]
		assert.True(t, ok, "missing rotation value %q", want)
	}
	_, ok := values["uworld_s1"]
	assert.False(t, ok, "resource key leaked into rotation whitelist")
}

func TestCategoryTagTypeRoundTrip(t *testing.T) {
	for _, category := range Categories {
		got, ok := CategoryForTagType(category.TagType())
		assert.True(t, ok)
		assert.Equal(t, category, got)
	}
}
