package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct{ X, Y float64 }
type vel struct{ X, Y float64 }

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.False(t, a.IsZero(), "index 0 is reserved")
	assert.True(t, p.Alive(a))

	p.Destroy(a)
	assert.False(t, p.Alive(a))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "freed slot is reused")
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.False(t, p.Alive(a), "stale id stays dead after reuse")

	p.Destroy(a) // stale destroy must not free b
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(0))
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore[pos]()
	for i := 1; i <= 5; i++ {
		s.Set(EntityID(i), &pos{X: float64(i)})
	}
	s.Remove(EntityID(2))
	s.Remove(EntityID(9)) // unknown id

	assert.Equal(t, []EntityID{1, 3, 4, 5}, s.IDs())
	assert.Equal(t, 4, s.Len())

	got, ok := s.Get(4)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.X)

	s.Set(3, &pos{X: 30})
	id, c := s.At(1)
	assert.Equal(t, EntityID(3), id)
	assert.Equal(t, 30.0, c.X)
}

func TestEach2FollowsFirstStore(t *testing.T) {
	ps := NewStore[pos]()
	vs := NewStore[vel]()
	for i := 1; i <= 4; i++ {
		ps.Set(EntityID(i), &pos{})
	}
	vs.Set(4, &vel{})
	vs.Set(2, &vel{})

	var seen []EntityID
	Each2(ps, vs, func(id EntityID, _ *pos, _ *vel) { seen = append(seen, id) })
	assert.Equal(t, []EntityID{2, 4}, seen)

	odd := Filter(ps, func(id EntityID, _ *pos) bool { return id%2 == 1 })
	assert.Equal(t, []EntityID{1, 3}, odd)
}

func TestWorldDeferredDestroy(t *testing.T) {
	w := NewWorld()
	positions := RegisterStore[pos](w)

	a := w.CreateEntity("Enemy", 1)
	b := w.CreateEntity("Bullet", 2)
	positions.Set(a, &pos{})
	positions.Set(b, &pos{})

	w.MarkForDestruction(a)
	w.MarkForDestruction(a)
	assert.Equal(t, 1, w.PendingDestroy())
	assert.False(t, w.Alive(a), "pending entity is hidden from the marking pass")
	assert.True(t, positions.Has(a), "components survive until flush")
	assert.Equal(t, 1, w.Len())

	w.FlushDestroyQueue()
	assert.False(t, positions.Has(a))
	assert.Equal(t, []EntityID{b}, positions.IDs())
	assert.Len(t, w.Entities(), 1)
	assert.Equal(t, 0, w.PendingDestroy())
}

func TestWorldLookupsAndActivation(t *testing.T) {
	w := NewWorld()
	p := w.CreateEntity("Player", 0)
	e1 := w.CreateEntity("Enemy", 1)
	e2 := w.CreateEntity("Enemy", 1)

	assert.Equal(t, []EntityID{e1, e2}, w.FindByName("Enemy"))
	assert.Equal(t, []EntityID{p}, w.FindByTag(0))

	w.SetAllActive(false)
	assert.False(t, w.Active(p))
	assert.True(t, w.Alive(p), "inactive entities still exist")
	assert.Len(t, w.Entities(), 3)

	ent, ok := w.Entity(e2)
	require.True(t, ok)
	assert.Equal(t, "Enemy", ent.Name)
}
