package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/types"
)

func sampleItems() []types.CartItem {
	return []types.CartItem{
		{ProductID: 1, Product: types.Product{ID: 1, Title: "Kettle", Price: decimal.RequireFromString("24.50")}, Quantity: 2},
		{ProductID: 9, Product: types.Product{ID: 9, Title: "Teapot", Price: decimal.NewFromInt(40)}, Quantity: 1},
	}
}

func TestStore_CartRoundTrip(t *testing.T) {
	s := New(NewMemoryBackend())

	s.SaveCart(sampleItems())
	got := s.LoadCart()

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ProductID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.True(t, got[0].Product.Price.Equal(decimal.RequireFromString("24.5")))
	assert.Equal(t, "Teapot", got[1].Product.Title)
}

func TestStore_LoadCartEmptyWhenAbsent(t *testing.T) {
	s := New(nil)
	got := s.LoadCart()
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, "", s.LoadPhone())
}

func TestStore_MalformedCartYieldsEmpty(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Set(CartKey, "{not json"))

	s := New(b)
	got := s.LoadCart()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_NullCartYieldsEmpty(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Set(CartKey, "null"))

	got := New(b).LoadCart()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_PhoneAndClear(t *testing.T) {
	s := New(NewMemoryBackend())
	s.SavePhone("79991234567")
	s.SaveCart(sampleItems())

	assert.Equal(t, "79991234567", s.LoadPhone())

	s.Clear()
	assert.Empty(t, s.LoadCart())
	assert.Equal(t, "", s.LoadPhone())
}

func TestStore_ClearWhenEmptyIsNoop(t *testing.T) {
	s := New(NewMemoryBackend())
	s.Clear()
	assert.Empty(t, s.LoadCart())
}

// failingBackend fails or panics on every call.
type failingBackend struct{ panics bool }

func (f failingBackend) fail() error {
	if f.panics {
		panic("backend exploded")
	}
	return errors.New("disk on fire")
}
func (f failingBackend) Get(string) (string, error) { return "", f.fail() }
func (f failingBackend) Set(string, string) error   { return f.fail() }
func (f failingBackend) Delete(string) error        { return f.fail() }
func (f failingBackend) Close() error               { return f.fail() }

func TestStore_FailuresAreSwallowed(t *testing.T) {
	for _, panics := range []bool{false, true} {
		s := New(failingBackend{panics: panics})

		assert.NotPanics(t, func() {
			s.SaveCart(sampleItems())
			s.SavePhone("79991234567")
			s.Clear()
			s.Close()
		})
		assert.Empty(t, s.LoadCart())
		assert.Equal(t, "", s.LoadPhone())
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cart.db")

	b, err := OpenSQLite("sqlite", path)
	require.NoError(t, err)
	assert.Equal(t, path, b.Path())

	_, err = b.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set("k", "v1"))
	require.NoError(t, b.Set("k", "v2"))
	v, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, b.Delete("k"))
	_, err = b.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, b.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")

	s := Open("sqlite", path)
	s.SaveCart(sampleItems())
	s.SavePhone("79990000000")
	s.Close()

	s = Open("sqlite", path)
	defer s.Close()
	assert.Len(t, s.LoadCart(), 2)
	assert.Equal(t, "79990000000", s.LoadPhone())
}

func TestOpen_ClosedDatabaseYieldsDefaults(t *testing.T) {
	s := Open("sqlite", filepath.Join(t.TempDir(), "storefront.db"))
	s.SaveCart(sampleItems())
	s.Close()

	assert.Empty(t, s.LoadCart())
	assert.NotPanics(t, func() { s.SaveCart(sampleItems()) })
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	s := Open("no-such-driver", filepath.Join(t.TempDir(), "x.db"))
	_, isMem := s.Backend().(*MemoryBackend)
	assert.True(t, isMem)

	s = Open("memory", "")
	_, isMem = s.Backend().(*MemoryBackend)
	assert.True(t, isMem)
}
