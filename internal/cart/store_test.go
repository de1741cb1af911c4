package cart

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront/internal/store"
	"storefront/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func product(id int64, price string) types.Product {
	return types.Product{ID: id, Title: "P", Price: decimal.RequireFromString(price)}
}

// recordingPersister counts calls and keeps the last saved cart.
type recordingPersister struct {
	mu     sync.Mutex
	loaded []types.CartItem
	saved  [][]types.CartItem
	loads  int
}

func (r *recordingPersister) SaveCart(items []types.CartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, items)
}

func (r *recordingPersister) LoadCart() []types.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.loaded
}

func (r *recordingPersister) last() []types.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

func assertAggregates(t *testing.T, st State) {
	t.Helper()
	total := 0
	price := decimal.Zero
	for _, item := range st.Items {
		total += item.Quantity
		price = price.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, total, st.TotalItems)
	assert.True(t, price.Equal(st.TotalPrice), "TotalPrice %s, want %s", st.TotalPrice, price)
}

func TestAdd_RepeatedCallsAccumulate(t *testing.T) {
	c := New(nil)
	defer c.Close()

	p := product(1, "9.99")
	for n := 1; n <= 7; n++ {
		c.Add(p)
		st := c.Snapshot()
		require.Len(t, st.Items, 1)
		assert.Equal(t, n, st.Items[0].Quantity)
		assert.Equal(t, n, c.Quantity(1))
	}
}

func TestAdd_KeepsOriginalSnapshot(t *testing.T) {
	c := New(nil)
	defer c.Close()

	c.Add(product(1, "100"))
	c.Add(product(1, "150"))

	st := c.Snapshot()
	require.Len(t, st.Items, 1)
	assert.True(t, st.Items[0].Product.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(200)))
}

func TestScenario_AddUpdateRemove(t *testing.T) {
	c := New(nil)
	defer c.Close()
	p1 := product(1, "100")

	c.Add(p1)
	st := c.Snapshot()
	assert.Equal(t, 1, st.TotalItems)
	assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(100)))

	c.Add(p1)
	st = c.Snapshot()
	assert.Equal(t, 2, st.TotalItems)
	assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(200)))

	c.UpdateQuantity(p1.ID, 5)
	st = c.Snapshot()
	assert.Equal(t, 5, st.TotalItems)
	assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(500)))

	c.Remove(p1.ID)
	st = c.Snapshot()
	assert.Equal(t, 0, st.TotalItems)
	assert.True(t, st.TotalPrice.IsZero())
	assert.True(t, st.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("zero removes", func(t *testing.T) {
		c := New(nil)
		defer c.Close()
		c.Add(product(1, "10"))
		c.Add(product(2, "5"))

		c.UpdateQuantity(1, 0)
		st := c.Snapshot()
		require.Len(t, st.Items, 1)
		assert.Equal(t, int64(2), st.Items[0].ProductID)
		assertAggregates(t, st)
	})

	t.Run("negative removes", func(t *testing.T) {
		c := New(nil)
		defer c.Close()
		c.Add(product(1, "10"))
		c.UpdateQuantity(1, -3)
		assert.True(t, c.Snapshot().IsEmpty())
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		c := New(nil)
		defer c.Close()
		c.Add(product(1, "10"))
		before := c.Snapshot()

		c.UpdateQuantity(42, 3)

		after := c.Snapshot()
		assert.Empty(t, cmp.Diff(before.Items, after.Items, cmp.Comparer(decimal.Decimal.Equal)))
		assert.Equal(t, before.TotalItems, after.TotalItems)
	})
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	c := New(nil)
	defer c.Close()
	c.Add(product(1, "3"))
	c.Remove(99)
	assert.Equal(t, 1, c.Snapshot().TotalItems)
}

func TestAggregatesHoldAfterRandomMutations(t *testing.T) {
	c := New(nil)
	defer c.Close()

	rng := rand.New(rand.NewSource(7))
	prices := []string{"0", "1.10", "19.99", "250", "0.01"}
	for i := 0; i < 500; i++ {
		id := int64(rng.Intn(6))
		switch rng.Intn(5) {
		case 0, 1:
			c.Add(product(id, prices[rng.Intn(len(prices))]))
		case 2:
			c.Remove(id)
		case 3:
			c.UpdateQuantity(id, rng.Intn(6)-1)
		case 4:
			if rng.Intn(10) == 0 {
				c.Clear()
			}
		}
		st := c.Snapshot()
		assertAggregates(t, st)

		ids := map[int64]bool{}
		for _, item := range st.Items {
			assert.Greater(t, item.Quantity, 0)
			assert.False(t, ids[item.ProductID], "duplicate line for %d", item.ProductID)
			ids[item.ProductID] = true
		}
	}
}

func TestLoad_DropsInvalidLines(t *testing.T) {
	c := New(nil)
	defer c.Close()

	c.Load([]types.CartItem{
		{ProductID: 1, Product: product(1, "2"), Quantity: 3},
		{ProductID: 2, Product: product(2, "2"), Quantity: 0},
		{ProductID: 1, Product: product(1, "9"), Quantity: 8},
		{ProductID: 3, Product: product(3, "1.5"), Quantity: 2},
	})

	st := c.Snapshot()
	require.Len(t, st.Items, 2)
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, int64(3), st.Items[1].ProductID)
	assert.Equal(t, 5, st.TotalItems)
	assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(9)))
}

func TestStateVersionGrowsWithEveryMutation(t *testing.T) {
	c := New(nil)
	defer c.Close()

	var versions []uint64
	c.Subscribe(func(st State) { versions = append(versions, st.Version) })

	c.Add(product(1, "10"))
	c.UpdateQuantity(1, 3)
	c.Remove(42)
	c.Clear()

	assert.Equal(t, []uint64{1, 2, 3, 4}, versions)
	assert.Equal(t, uint64(4), c.Snapshot().Version)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(nil)
	defer c.Close()
	c.Add(product(1, "1"))

	st := c.Snapshot()
	st.Items[0].Quantity = 100

	assert.Equal(t, 1, c.Quantity(1))
}

func TestSubscribe(t *testing.T) {
	c := New(nil)
	defer c.Close()

	var seen []State
	unsubscribe := c.Subscribe(func(st State) { seen = append(seen, st) })

	c.Add(product(1, "10"))
	c.Add(product(1, "10"))
	c.Remove(1)
	unsubscribe()
	unsubscribe()
	c.Add(product(2, "10"))

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].TotalItems)
	assert.Equal(t, 2, seen[1].TotalItems)
	assert.Equal(t, 0, seen[2].TotalItems)
}

func TestSubscribe_CanReadSnapshot(t *testing.T) {
	c := New(nil)
	defer c.Close()

	var got int
	c.Subscribe(func(State) { got = c.Snapshot().TotalItems })
	c.Add(product(1, "1"))
	assert.Equal(t, 1, got)
}

func TestSubscribe_UnsubscribeFromCallback(t *testing.T) {
	c := New(nil)
	defer c.Close()

	var once, always int
	var unsubscribe func()
	unsubscribe = c.Subscribe(func(State) {
		once++
		unsubscribe()
	})
	c.Subscribe(func(State) { always++ })

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Add(product(1, "10"))
		c.Add(product(2, "10"))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutation blocked by a subscriber that unsubscribed itself")
	}
	assert.Equal(t, 1, once)
	assert.Equal(t, 2, always)
	assert.Equal(t, 2, c.Snapshot().TotalItems)
}

func TestPersistence_EveryMutationReachesStorage(t *testing.T) {
	p := &recordingPersister{}
	c := New(p)

	c.Add(product(1, "10"))
	c.Add(product(2, "20"))
	c.UpdateQuantity(2, 4)
	c.Close()

	last := p.last()
	require.Len(t, last, 2)
	assert.Equal(t, 4, last[1].Quantity)
}

func TestPersistence_ClearWritesEmptyCart(t *testing.T) {
	p := &recordingPersister{}
	c := New(p)
	c.Add(product(1, "10"))
	c.Clear()
	c.Close()

	last := p.last()
	require.NotNil(t, last)
	assert.Empty(t, last)
}

func TestPersistence_FlushIsSynchronous(t *testing.T) {
	p := &recordingPersister{}
	c := New(p)
	defer c.Close()

	c.Add(product(5, "1"))
	c.Flush()

	last := p.last()
	require.Len(t, last, 1)
	assert.Equal(t, int64(5), last[0].ProductID)
}

func TestHydrate(t *testing.T) {
	t.Run("loads persisted items once", func(t *testing.T) {
		p := &recordingPersister{loaded: []types.CartItem{
			{ProductID: 4, Product: product(4, "2.5"), Quantity: 2},
		}}
		c := New(p)
		defer c.Close()

		c.Hydrate()
		c.Hydrate()

		st := c.Snapshot()
		assert.Equal(t, 2, st.TotalItems)
		assert.True(t, st.TotalPrice.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, 1, p.loads)
	})

	t.Run("empty storage does not write back", func(t *testing.T) {
		p := &recordingPersister{}
		c := New(p)
		c.Hydrate()
		c.Close()

		assert.Empty(t, p.saved)
		assert.True(t, c.Snapshot().IsEmpty())
	})
}

func TestRoundTripThroughPersistenceAdapter(t *testing.T) {
	adapter := store.New(store.NewMemoryBackend())

	c := New(adapter)
	c.Add(types.Product{ID: 1, Title: "Lamp", Description: "Brass", ImageURL: "https://img/1.png", Price: decimal.RequireFromString("49.90")})
	c.Add(types.Product{ID: 2, Title: "Rug", Price: decimal.NewFromInt(120)})
	c.UpdateQuantity(2, 3)
	want := c.Snapshot()
	c.Close()

	restored := New(adapter)
	defer restored.Close()
	restored.Hydrate()
	got := restored.Snapshot()

	assert.Empty(t, cmp.Diff(want, got, cmp.Comparer(decimal.Decimal.Equal)))
}

func TestConcurrentMutations(t *testing.T) {
	p := &recordingPersister{}
	c := New(p)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c.Add(product(1, "1"))
			}
		}()
	}
	wg.Wait()
	c.Close()

	assert.Equal(t, 400, c.Quantity(1))
	last := p.last()
	require.Len(t, last, 1)
	assert.Equal(t, 400, last[0].Quantity)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New(&recordingPersister{})
	c.Close()
	c.Close()
}
