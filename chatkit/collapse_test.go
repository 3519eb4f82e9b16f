package chatkit

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapserAppliesPersistedFlag(t *testing.T) {
	store := newMemStore()
	page := &recordCollapse{}
	sidebar := &recordCollapse{}
	c := NewCollapser(store, page, sidebar, zerolog.Nop())

	c.Apply()
	require.Equal(t, []bool{false}, page.values)
	require.Equal(t, []bool{false}, sidebar.values)

	// the store is read fresh on every apply, even when mutated elsewhere
	require.NoError(t, store.Set(CollapsedKey, "true"))
	c.Apply()
	assert.Equal(t, []bool{false, true}, page.values)
	assert.Equal(t, []bool{false, true}, sidebar.values)
}

func TestCollapserOnlyLiteralTrueCollapses(t *testing.T) {
	store := newMemStore()
	c := NewCollapser(store, &recordCollapse{}, nil, zerolog.Nop())

	for _, v := range []string{"", "false", "TRUE", "1", "yes"} {
		require.NoError(t, store.Set(CollapsedKey, v))
		assert.False(t, c.Collapsed(), "value %q must not collapse", v)
	}
	require.NoError(t, store.Set(CollapsedKey, "true"))
	assert.True(t, c.Collapsed())
}

func TestCollapserToggle(t *testing.T) {
	store := newMemStore()
	page := &recordCollapse{}
	c := NewCollapser(store, page, nil, zerolog.Nop())

	c.Toggle()
	assert.Equal(t, "true", store.Get(CollapsedKey))
	assert.Equal(t, []bool{true}, page.values)

	c.Toggle()
	assert.Equal(t, "false", store.Get(CollapsedKey))
	assert.Equal(t, []bool{true, false}, page.values)
}

func TestCollapserToleratesAbsentSidebar(t *testing.T) {
	page := &recordCollapse{}
	c := NewCollapser(newMemStore(), page, nil, zerolog.Nop())

	assert.NotPanics(t, func() { c.Apply() })
	assert.Equal(t, []bool{false}, page.values)
}

func TestCollapserToggleSurvivesWriteFailure(t *testing.T) {
	store := &failStore{setErr: errors.New("disk full")}
	page := &recordCollapse{}
	c := NewCollapser(store, page, nil, zerolog.Nop())

	assert.NotPanics(t, func() { c.Toggle() })
	// the view still reflects whatever the store holds
	assert.Equal(t, []bool{false}, page.values)
}
