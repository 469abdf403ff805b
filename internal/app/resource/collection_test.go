package resource

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Name string
	Tags []string
	Meta map[string]any
}

func (i item) ResourceID() int { return i.ID }

func (i item) Clone() item {
	c := i
	c.Tags = append([]string(nil), i.Tags...)
	if i.Meta != nil {
		c.Meta = make(map[string]any, len(i.Meta))
		for k, v := range i.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

func newColl() *Collection[int, item] { return NewCollection[int, item]() }

func TestCollection_TrackLowersLoadingOnSuccessAndFailure(t *testing.T) {
	t.Parallel()

	c := newColl()
	var during bool
	err := c.Track(context.Background(), func(context.Context) error {
		during = c.Loading()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, during)
	assert.False(t, c.Loading())

	boom := errors.New("boom")
	err = c.Track(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Loading())
}

func TestCollection_TrackLowersLoadingOnPanic(t *testing.T) {
	t.Parallel()

	c := newColl()
	func() {
		defer func() { _ = recover() }()
		_ = c.Track(context.Background(), func(context.Context) error { panic("x") })
	}()
	assert.False(t, c.Loading())
}

func TestCollection_ReplaceAllKeepsOrderAndDedupes(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.ReplaceAll([]item{{ID: 3}, {ID: 1}, {ID: 3, Name: "dup"}, {ID: 2}})
	got := c.Items()
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 1, 2}, ids(got))
	assert.Equal(t, "", got[0].Name)
}

func TestCollection_PrependFocusRules(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.ReplaceAll([]item{{ID: 1}, {ID: 2}})

	c.Prepend(item{ID: 7, Name: "gen"}, true)
	f, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, 7, f.ID)
	assert.Equal(t, []int{7, 1, 2}, ids(c.Items()))

	c.Prepend(item{ID: 8}, false)
	f, _ = c.Focused()
	assert.Equal(t, 7, f.ID, "non-focusing prepend must not move focus")
	assert.Equal(t, []int{8, 7, 1, 2}, ids(c.Items()))

	// Re-prepending an existing id keeps ids unique and refreshes a matching focus.
	c.Prepend(item{ID: 7, Name: "again"}, false)
	assert.Equal(t, []int{7, 8, 1, 2}, ids(c.Items()))
	f, _ = c.Focused()
	assert.Equal(t, "again", f.Name)
}

func TestCollection_ReplaceUpdatesElementAndFocusTogether(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.ReplaceAll([]item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	c.Focus(item{ID: 2, Name: "b"})

	require.True(t, c.Replace(item{ID: 2, Name: "b2"}))
	el, ok := c.Get(2)
	require.True(t, ok)
	f, _ := c.Focused()
	assert.Equal(t, el, f)
	assert.Equal(t, "b2", f.Name)

	// Replacing a non-focused element leaves focus alone.
	require.True(t, c.Replace(item{ID: 1, Name: "a2"}))
	f, _ = c.Focused()
	assert.Equal(t, 2, f.ID)

	assert.False(t, c.Replace(item{ID: 99}))
	assert.Equal(t, []int{1, 2}, ids(c.Items()))
}

func TestCollection_FocusRefreshesMatchingElementWithoutChangingMembership(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.ReplaceAll([]item{{ID: 1, Name: "old"}})

	c.Focus(item{ID: 1, Name: "new"})
	el, _ := c.Get(1)
	assert.Equal(t, "new", el.Name)

	c.Focus(item{ID: 5, Name: "detail-only"})
	assert.Equal(t, []int{1}, ids(c.Items()))
	f, _ := c.Focused()
	assert.Equal(t, 5, f.ID)
}

func TestCollection_RemoveClearsMatchingFocus(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.ReplaceAll([]item{{ID: 1}, {ID: 2}})
	c.Focus(item{ID: 2})

	require.True(t, c.Remove(1))
	_, ok := c.Focused()
	assert.True(t, ok)

	require.True(t, c.Remove(2))
	_, ok = c.Focused()
	assert.False(t, ok)
	assert.Empty(t, c.Items())
	assert.False(t, c.Remove(2))
}

func TestCollection_SnapshotsAreCopies(t *testing.T) {
	t.Parallel()

	c := newColl()
	in := []item{{ID: 1, Name: "a", Tags: []string{"x"}, Meta: map[string]any{"k": "v"}}}
	c.ReplaceAll(in)
	in[0].Tags[0] = "changed by caller"

	got := c.Items()
	got[0].Name = "mutated"
	got[0].Tags[0] = "mutated"
	got[0].Meta["k"] = "mutated"

	c.Focus(item{ID: 1, Name: "a", Tags: []string{"x"}})
	focused, ok := c.Focused()
	require.True(t, ok)
	focused.Tags[0] = "mutated"
	snap := c.Snapshot()
	snap.Items[0].Tags[0] = "mutated"
	snap.Focused.Tags[0] = "mutated"

	el, _ := c.Get(1)
	assert.Equal(t, "a", el.Name)
	assert.Equal(t, []string{"x"}, el.Tags)
	focused, _ = c.Focused()
	assert.Equal(t, []string{"x"}, focused.Tags)
}

func TestCollection_SubscribeReceivesChangesUntilCanceled(t *testing.T) {
	t.Parallel()

	c := newColl()
	var mu sync.Mutex
	var seen []Snapshot[int, item]
	cancel := c.Subscribe(func(s Snapshot[int, item]) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	c.Prepend(item{ID: 1}, true)
	cancel()
	cancel()
	c.Prepend(item{ID: 2}, true)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	require.NotNil(t, seen[0].Focused)
	assert.Equal(t, 1, seen[0].Focused.ID)
}

func TestCollection_ResetEmpties(t *testing.T) {
	t.Parallel()

	c := newColl()
	c.Prepend(item{ID: 1}, true)
	c.Reset()
	s := c.Snapshot()
	assert.Empty(t, s.Items)
	assert.Nil(t, s.Focused)
}

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
