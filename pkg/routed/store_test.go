package routed_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/routed/pkg/routed"
)

type keyArgs struct {
	routed.RoutedEventArgs
	Key string
}

type mouseArgs struct {
	routed.RoutedEventArgs
	X, Y int
}

func nop() *routed.Handler {
	return routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })
}

func storeFixture(t *testing.T) (*routed.Manager, *routed.RoutedEvent, *routed.RoutedEvent) {
	t.Helper()
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)
	keyDown := m.MustRegisterRoutedEvent("KeyDown", routed.Bubble, routed.HandlerTypeFor[*keyArgs](), element)
	mouseDown := m.MustRegisterRoutedEvent("MouseDown", routed.Bubble, routed.HandlerTypeFor[*mouseArgs](), element)
	return m, keyDown, mouseDown
}

func TestHandlerStore_AddKeepsRegistrationOrder(t *testing.T) {
	_, keyDown, _ := storeFixture(t)
	s := routed.NewHandlerStore()

	h1, h2, h3 := nop(), nop(), nop()
	require.NoError(t, s.AddHandler(keyDown, h1, false))
	require.NoError(t, s.AddHandler(keyDown, h2, true))
	require.NoError(t, s.AddHandler(keyDown, h3, false))

	got := s.Handlers(keyDown)
	require.Len(t, got, 3)
	assert.Same(t, h1, got[0].Handler())
	assert.Same(t, h2, got[1].Handler())
	assert.Same(t, h3, got[2].Handler())
	assert.False(t, got[0].InvokeHandledEventsToo())
	assert.True(t, got[1].InvokeHandledEventsToo())
}

func TestHandlerStore_SignatureCheck(t *testing.T) {
	_, keyDown, mouseDown := storeFixture(t)
	s := routed.NewHandlerStore()

	typed := routed.NewTypedHandler(func(_ routed.Target, a *keyArgs) error { return nil })
	require.NoError(t, s.AddHandler(keyDown, typed, false))
	require.NoError(t, s.AddHandler(keyDown, nop(), false), "universal handlers are always legal")

	err := s.AddHandler(mouseDown, typed, false)
	require.ErrorIs(t, err, routed.ErrInvalidHandlerType)
	assert.False(t, s.Contains(mouseDown), "rejected add must not create a slot")

	var typeErr *routed.HandlerTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "UIElement.MouseDown", typeErr.Event)

	assert.ErrorIs(t, s.RemoveHandler(mouseDown, typed), routed.ErrInvalidHandlerType)
}

func TestHandlerStore_NilArguments(t *testing.T) {
	m, keyDown, _ := storeFixture(t)
	s := routed.NewHandlerStore()
	key := m.NewEventPrivateKey()

	assert.ErrorIs(t, s.AddHandler(nil, nop(), false), routed.ErrNilArgument)
	assert.ErrorIs(t, s.AddHandler(keyDown, nil, false), routed.ErrNilArgument)
	assert.ErrorIs(t, s.RemoveHandler(nil, nop()), routed.ErrNilArgument)
	assert.ErrorIs(t, s.RemoveHandler(keyDown, nil), routed.ErrNilArgument)
	assert.ErrorIs(t, s.AddPrivate(nil, nop()), routed.ErrNilArgument)
	assert.ErrorIs(t, s.AddPrivate(key, nil), routed.ErrNilArgument)
	assert.ErrorIs(t, s.RemovePrivate(nil, nop()), routed.ErrNilArgument)
	assert.ErrorIs(t, s.RemovePrivate(key, nil), routed.ErrNilArgument)

	var argErr *routed.ArgumentError
	require.ErrorAs(t, s.AddHandler(keyDown, nil, false), &argErr)
	assert.Equal(t, "AddHandler", argErr.Op)
	assert.Equal(t, "handler", argErr.Arg)

	assert.Equal(t, 0, s.Len())
}

func TestHandlerStore_AddThenRemoveClearsSlot(t *testing.T) {
	_, keyDown, _ := storeFixture(t)

	for _, handledEventsToo := range []bool{false, true} {
		s := routed.NewHandlerStore()
		h := nop()
		require.NoError(t, s.AddHandler(keyDown, h, handledEventsToo))
		require.NoError(t, s.RemoveHandler(keyDown, h))

		assert.False(t, s.Contains(keyDown))
		assert.Nil(t, s.Handlers(keyDown))
		assert.Equal(t, 0, s.Len())
	}
}

func TestHandlerStore_RemoveFirstMatchOnly(t *testing.T) {
	_, keyDown, _ := storeFixture(t)
	s := routed.NewHandlerStore()

	h, other := nop(), nop()
	require.NoError(t, s.AddHandler(keyDown, h, false))
	require.NoError(t, s.AddHandler(keyDown, other, false))
	require.NoError(t, s.AddHandler(keyDown, h, true))

	require.NoError(t, s.RemoveHandler(keyDown, h))

	got := s.Handlers(keyDown)
	require.Len(t, got, 2)
	assert.Same(t, other, got[0].Handler())
	assert.Same(t, h, got[1].Handler())
	assert.True(t, got[1].InvokeHandledEventsToo())

	require.NoError(t, s.RemoveHandler(keyDown, nop()), "unknown handler is a no-op")
	assert.Len(t, s.Handlers(keyDown), 2)
}

func TestHandlerStore_SnapshotIsolation(t *testing.T) {
	_, keyDown, _ := storeFixture(t)
	s := routed.NewHandlerStore()

	h1, h2 := nop(), nop()
	require.NoError(t, s.AddHandler(keyDown, h1, false))
	require.NoError(t, s.AddHandler(keyDown, h2, false))

	snapshot := s.Handlers(keyDown)
	require.NoError(t, s.RemoveHandler(keyDown, h1))
	require.NoError(t, s.AddHandler(keyDown, nop(), false))

	require.Len(t, snapshot, 2)
	assert.Same(t, h1, snapshot[0].Handler())
	assert.Same(t, h2, snapshot[1].Handler())
}

func TestHandlerStore_PrivateKeys(t *testing.T) {
	m, keyDown, mouseDown := storeFixture(t)
	s := routed.NewHandlerStore()

	key := m.NewEventPrivateKey()
	h := nop()
	require.NoError(t, s.AddPrivate(key, h))
	require.NoError(t, s.AddHandler(mouseDown, nop(), false))
	require.NoError(t, s.AddHandler(keyDown, nop(), false))

	assert.True(t, s.Contains(key))
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Handlers(key)[0].InvokeHandledEventsToo())

	require.NoError(t, s.RemovePrivate(key, h))
	assert.False(t, s.Contains(key))
	assert.True(t, s.Contains(keyDown))
	assert.True(t, s.Contains(mouseDown))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestHandlerStore_NilStoreReads(t *testing.T) {
	_, keyDown, _ := storeFixture(t)
	var s *routed.HandlerStore

	assert.False(t, s.Contains(keyDown))
	assert.Nil(t, s.Handlers(keyDown))
	assert.Equal(t, 0, s.Len())
}

func TestHandlerStore_CustomValidator(t *testing.T) {
	_, keyDown, _ := storeFixture(t)
	strict := func(required, actual routed.HandlerType) bool { return required == actual }
	s := routed.NewHandlerStore(routed.WithStoreValidator(strict))

	assert.ErrorIs(t, s.AddHandler(keyDown, nop(), false), routed.ErrInvalidHandlerType)
	assert.NoError(t, s.AddHandler(keyDown, routed.NewTypedHandler(func(routed.Target, *keyArgs) error { return nil }), false))
}

func TestHandlerStore_Concurrent(t *testing.T) {
	_, keyDown, mouseDown := storeFixture(t)
	s := routed.NewHandlerStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := keyDown
			if i%2 == 0 {
				e = mouseDown
			}
			for j := 0; j < 50; j++ {
				h := nop()
				assert.NoError(t, s.AddHandler(e, h, j%2 == 0))
				_ = s.Handlers(e)
				_ = s.Contains(e)
				assert.NoError(t, s.RemoveHandler(e, h))
			}
		}(i)
	}
	wg.Wait()

	assert.False(t, s.Contains(keyDown))
	assert.False(t, s.Contains(mouseDown))
}
