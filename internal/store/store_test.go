package store

import (
	"sync"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

func cartItem(productID uint, quantity int, price int64) models.CartItem {
	return models.CartItem{
		CartID:    1,
		ProductID: productID,
		Quantity:  quantity,
		Product:   models.CartProduct{ProductName: "item", ProductPrice: models.NewMoneyFromInt(price)},
	}
}

func TestInitialState(t *testing.T) {
	s := New()
	snap := s.Snapshot()
	if snap.Cart.Status != constants.RequestStatusIdle {
		t.Fatalf("initial cart status want idle got %s", snap.Cart.Status)
	}
	if snap.Order.Phase != constants.OrderPhaseNone {
		t.Fatalf("initial order phase want none got %s", snap.Order.Phase)
	}
	if snap.Auth.Authenticated() {
		t.Fatalf("initial auth should be anonymous")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	s.Dispatch(ActionCartFulfilled, func(st *State) {
		st.Cart.Items = []models.CartItem{cartItem(1, 2, 100000)}
	})

	snap := s.Snapshot()
	snap.Cart.Items[0].Quantity = 99

	if got := s.Cart().Items[0].Quantity; got != 2 {
		t.Fatalf("snapshot mutation leaked into store, quantity=%d", got)
	}
}

func TestSubtotalAndTotalQuantity(t *testing.T) {
	cart := CartState{Items: []models.CartItem{cartItem(1, 2, 100000)}}
	if got := cart.Subtotal().String(); got != "200000.00" {
		t.Fatalf("subtotal want 200000.00 got %s", got)
	}
	cart.Items = append(cart.Items, cartItem(2, 3, 5000))
	if got := cart.TotalQuantity(); got != 5 {
		t.Fatalf("total quantity want 5 got %d", got)
	}
	if cart.IndexOf(2) != 1 || cart.IndexOf(9) != -1 {
		t.Fatalf("unexpected index lookup")
	}
}

func TestSubscribeReceivesActions(t *testing.T) {
	s := New()
	var (
		mu      sync.Mutex
		actions []string
	)
	cancel := s.Subscribe(func(action string) {
		mu.Lock()
		actions = append(actions, action)
		mu.Unlock()
	})

	s.Dispatch(ActionCartPending, func(st *State) { st.Cart.Status = constants.RequestStatusLoading })
	cancel()
	cancel()
	s.Dispatch(ActionCartCleared, func(st *State) {})

	mu.Lock()
	defer mu.Unlock()
	if len(actions) != 1 || actions[0] != ActionCartPending {
		t.Fatalf("unexpected actions: %v", actions)
	}
}

func TestConcurrentDispatchIsSerialized(t *testing.T) {
	s := New()
	s.Dispatch(ActionCartFulfilled, func(st *State) {
		st.Cart.Items = []models.CartItem{cartItem(1, 1, 10)}
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ActionCartItemOptimistic, func(st *State) {
				st.Cart.Items[0].Quantity++
			})
		}()
	}
	wg.Wait()

	if got := s.Cart().Items[0].Quantity; got != 51 {
		t.Fatalf("quantity want 51 got %d", got)
	}
}

func TestTokenReadsAuthSlice(t *testing.T) {
	s := New()
	s.Dispatch(ActionAuthLogin, func(st *State) {
		st.Auth.Token = "abc"
		st.Auth.Role = constants.RoleUser
	})
	if s.Token() != "abc" {
		t.Fatalf("token want abc got %s", s.Token())
	}
}
