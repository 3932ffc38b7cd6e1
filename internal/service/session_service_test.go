package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"
)

func loggedIn(st *store.Store, role string) {
	st.Dispatch(store.ActionAuthLogin, func(s *store.State) {
		s.Auth = store.AuthState{Token: "t", Role: role}
	})
}

func TestSessionBootstrapChain(t *testing.T) {
	st := store.New()
	loggedIn(st, "")
	profiles := NewProfileService(st, &profileAPIStub{profile: &models.UserProfile{ID: 5, Name: "Budi", Role: "USER"}})
	carts := NewCartService(st, &cartAPIStub{cart: &models.Cart{
		CartID:    7,
		CartItems: []models.CartItem{newCartItem(1, 2, 100), newCartItem(2, 3, 100)},
	}})
	session := NewSessionService(profiles, carts)

	result, err := session.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if result.Role != constants.RoleUser || result.Profile.ID != 5 || result.Badge != 5 {
		t.Fatalf("unexpected bootstrap result: %+v", result)
	}
	if st.Auth().UserID != 5 {
		t.Fatalf("auth user id should be filled from profile")
	}
}

func TestSessionBootstrapRequiresLogin(t *testing.T) {
	st := store.New()
	session := NewSessionService(NewProfileService(st, &profileAPIStub{}), NewCartService(st, &cartAPIStub{}))
	if _, err := session.Bootstrap(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated got %v", err)
	}
}

func TestSessionDetachDiscardsInFlightProfile(t *testing.T) {
	st := store.New()
	loggedIn(st, constants.RoleUser)
	profileStub := &profileAPIStub{profile: &models.UserProfile{ID: 5}, gate: make(chan struct{})}
	cartStub := &cartAPIStub{cart: &models.Cart{CartID: 7}}
	session := NewSessionService(NewProfileService(st, profileStub), NewCartService(st, cartStub))

	done := make(chan error, 1)
	go func() {
		_, err := session.Bootstrap(context.Background())
		done <- err
	}()
	waitFor(t, func() bool { return st.Profile().Loading })

	session.Detach()
	close(profileStub.gate)

	if err := <-done; !errors.Is(err, ErrStaleResult) {
		t.Fatalf("detached bootstrap want ErrStaleResult got %v", err)
	}
	if st.Profile().Data != nil {
		t.Fatalf("stale profile should not be stored")
	}
	if cartStub.getCalls != 0 {
		t.Fatalf("cart should not be fetched after detach")
	}
}
