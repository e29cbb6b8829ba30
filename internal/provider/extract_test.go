package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFrom(t *testing.T) {
	assert.Equal(t, "hello", StringFrom("  hello  "))
	assert.Equal(t, "", StringFrom("   "))
	assert.Equal(t, "42", StringFrom(float64(42)))
	assert.Equal(t, "42.5", StringFrom(42.5))
	assert.Equal(t, "7", StringFrom(7))
	assert.Equal(t, "", StringFrom(nil))
	assert.Equal(t, "", StringFrom(true))
	assert.Equal(t, "", StringFrom([]any{"a"}))
}

func TestNumberFrom(t *testing.T) {
	n := NumberFrom(float64(42000))
	require.NotNil(t, n)
	assert.Equal(t, 42000.0, *n)

	n = NumberFrom(" 55000.5 ")
	require.NotNil(t, n)
	assert.Equal(t, 55000.5, *n)

	assert.Nil(t, NumberFrom("not a number"))
	assert.Nil(t, NumberFrom(""))
	assert.Nil(t, NumberFrom(nil))
	assert.Nil(t, NumberFrom(true))
}

func TestBoolFrom(t *testing.T) {
	for _, truthy := range []any{true, "true", "TRUE", "1", "Oui", "yes", float64(1), 1} {
		b := BoolFrom(truthy)
		require.NotNil(t, b, "value %v", truthy)
		assert.True(t, *b, "value %v", truthy)
	}

	// any other string is an explicit false, not absent
	for _, falsy := range []any{false, "non", "0", "false", "anything", float64(0), float64(2)} {
		b := BoolFrom(falsy)
		require.NotNil(t, b, "value %v", falsy)
		assert.False(t, *b, "value %v", falsy)
	}

	assert.Nil(t, BoolFrom(nil))
	assert.Nil(t, BoolFrom([]any{}))
}

func TestTagsFrom(t *testing.T) {
	assert.Equal(t, []string{"go", "42", "sql"}, TagsFrom([]any{"go", float64(42), "", nil, "sql"}))
	assert.Equal(t, []string{"go", "sql", "remote"}, TagsFrom("go, sql; remote"))
	assert.Equal(t, []string{"a", "b"}, TagsFrom("a/b"))
	assert.Nil(t, TagsFrom(nil))
	assert.Nil(t, TagsFrom(float64(3)))
}

func TestTimeFrom(t *testing.T) {
	got := TimeFrom("2025-06-01T10:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), *got)

	got = TimeFrom("2025-06-01")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *got)

	// bare numbers are epoch milliseconds
	got = TimeFrom(float64(1717237800000))
	require.NotNil(t, got)
	assert.Equal(t, int64(1717237800), got.Unix())

	assert.Nil(t, TimeFrom("yesterday-ish"))
	assert.Nil(t, TimeFrom(""))
	assert.Nil(t, TimeFrom(nil))
}

func TestEpochTimeFrom(t *testing.T) {
	// below the cutoff means seconds
	got := EpochTimeFrom(float64(1717237800))
	require.NotNil(t, got)
	assert.Equal(t, int64(1717237800), got.Unix())

	// above the cutoff is already milliseconds
	got = EpochTimeFrom(float64(1717237800000))
	require.NotNil(t, got)
	assert.Equal(t, int64(1717237800), got.Unix())

	// numeric strings work too
	got = EpochTimeFrom("1717237800")
	require.NotNil(t, got)
	assert.Equal(t, int64(1717237800), got.Unix())

	assert.Nil(t, EpochTimeFrom("soon"))
	assert.Nil(t, EpochTimeFrom(nil))
}

func TestDig(t *testing.T) {
	item := map[string]any{
		"entreprise": map[string]any{"nom": "ACME"},
		"titre":      "Dev Go",
	}
	assert.Equal(t, "ACME", Dig(item, "entreprise.nom"))
	assert.Equal(t, "Dev Go", Dig(item, "titre"))
	assert.Nil(t, Dig(item, "entreprise.ville"))
	assert.Nil(t, Dig(item, "lieu.libelle"))
	assert.Nil(t, Dig(item, "titre.nested"))
	assert.Nil(t, Dig(item, ""))
}

func TestPickString_PriorityOrder(t *testing.T) {
	item := map[string]any{
		"url":  "",
		"link": "https://example.com/job/1",
		"href": "https://other.example.com",
	}
	assert.Equal(t, "https://example.com/job/1", PickString(item, "url", "link", "href"))
	assert.Equal(t, "", PickString(item, "missing", "url"))
}

func TestPickNumber_PickTime(t *testing.T) {
	item := map[string]any{
		"salary":    map[string]any{"min": float64(40000)},
		"published": "2025-06-01T00:00:00Z",
	}
	n := PickNumber(item, "salary_from", "salary.min")
	require.NotNil(t, n)
	assert.Equal(t, 40000.0, *n)

	ts := PickTime(item, "created", "published")
	require.NotNil(t, ts)
	assert.Equal(t, 2025, ts.Year())

	assert.Nil(t, PickNumber(item, "nope"))
	assert.Nil(t, PickTime(item, "nope"))
}
