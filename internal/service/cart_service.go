package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"
)

// CartService 购物车状态机
// 修改数量与移除为乐观更新，服务端拒绝时回滚到修改前的快照
type CartService struct {
	store *store.Store
	api   CartAPI

	fetchGen atomic.Uint64

	mu      sync.Mutex
	counter uint64
	seq     map[uint]uint64 // 每个商品最后一次发起的修改序号
}

// NewCartService 创建购物车服务
func NewCartService(st *store.Store, cartAPI CartAPI) *CartService {
	return &CartService{
		store: st,
		api:   cartAPI,
		seq:   make(map[uint]uint64),
	}
}

// FetchCart 拉取购物车并整体替换本地状态
func (s *CartService) FetchCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	gen := s.fetchGen.Add(1)
	s.store.Dispatch(store.ActionCartPending, func(st *store.State) {
		st.Cart.Status = constants.RequestStatusLoading
		st.Cart.Error = ""
		st.Cart.Generation = gen
	})

	cart, err := s.api.GetCart(ctx, userID)
	if err != nil {
		s.store.Dispatch(store.ActionCartRejected, func(st *store.State) {
			if st.Cart.Generation != gen {
				return
			}
			st.Cart.Status = constants.RequestStatusFailed
			st.Cart.Error = api.Message(err)
		})
		logger.Warnw("cart_fetch_failed", "user_id", userID, "error", err)
		return err
	}

	stale := false
	s.store.Dispatch(store.ActionCartFulfilled, func(st *store.State) {
		if st.Cart.Generation != gen {
			stale = true
			return
		}
		items := cart.CartItems
		if items == nil {
			items = []models.CartItem{}
		}
		st.Cart.CartID = cart.CartID
		st.Cart.HasCart = true
		st.Cart.Items = items
		st.Cart.Status = constants.RequestStatusSucceeded
		st.Cart.Error = ""
	})
	if stale {
		logger.Debugw("cart_fetch_discarded", "user_id", userID, "generation", gen)
		return ErrStaleResult
	}
	return nil
}

// AddItem 加入购物车，服务端确认后才写入本地
func (s *CartService) AddItem(ctx context.Context, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	seq := s.nextSeq(productID)
	item, err := s.api.AddToCart(ctx, models.CartMutation{ProductID: productID, Quantity: quantity})
	if err != nil {
		s.fail(err)
		logger.Warnw("cart_add_failed", "product_id", productID, "error", err)
		return nil, err
	}
	if item.ProductID == 0 {
		item.ProductID = productID
	}
	if item.Quantity < 1 {
		item.Quantity = quantity
	}
	added := *item
	s.store.Dispatch(store.ActionCartItemAdded, func(st *store.State) {
		if !s.isLatest(added.ProductID, seq) {
			return
		}
		if idx := st.Cart.IndexOf(added.ProductID); idx >= 0 {
			st.Cart.Items[idx] = added
		} else {
			st.Cart.Items = append(st.Cart.Items, added)
		}
		if st.Cart.CartID == 0 && added.CartID != 0 {
			st.Cart.CartID = added.CartID
			st.Cart.HasCart = true
		}
		st.Cart.Error = ""
	})
	return &added, nil
}

// UpdateQuantity 乐观修改数量，数量小于 1 时拒绝且不发请求
func (s *CartService) UpdateQuantity(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	seq := s.nextSeq(productID)

	var (
		prev  models.CartItem
		index = -1
	)
	s.store.Dispatch(store.ActionCartItemOptimistic, func(st *store.State) {
		index = st.Cart.IndexOf(productID)
		if index < 0 {
			return
		}
		prev = st.Cart.Items[index]
		st.Cart.Items[index].Quantity = quantity
		st.Cart.Error = ""
	})
	if index < 0 {
		return ErrCartItemNotFound
	}

	confirmed, err := s.api.UpdateCartItem(ctx, models.CartMutation{ProductID: productID, Quantity: quantity})
	if err != nil {
		s.rollback(productID, seq, prev, index, err)
		logger.Warnw("cart_update_failed", "product_id", productID, "quantity", quantity, "error", err)
		return err
	}

	s.store.Dispatch(store.ActionCartItemConfirmed, func(st *store.State) {
		if !s.isLatest(productID, seq) || confirmed == nil || confirmed.ProductID != productID {
			return
		}
		idx := st.Cart.IndexOf(productID)
		if idx < 0 {
			return
		}
		item := *confirmed
		if item.Quantity < 1 {
			item.Quantity = quantity
		}
		if item.Product.ProductName == "" {
			item.Product = st.Cart.Items[idx].Product
		}
		st.Cart.Items[idx] = item
	})
	return nil
}

// StepQuantity 按增量修改数量，结果小于 1 时为空操作
func (s *CartService) StepQuantity(ctx context.Context, productID uint, delta int) (bool, error) {
	cart := s.store.Cart()
	idx := cart.IndexOf(productID)
	if idx < 0 {
		return false, ErrCartItemNotFound
	}
	next := cart.Items[idx].Quantity + delta
	if next < 1 || delta == 0 {
		return false, nil
	}
	if err := s.UpdateQuantity(ctx, productID, next); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem 乐观移除，本地状态在请求发出前同步更新
func (s *CartService) RemoveItem(ctx context.Context, productID uint) error {
	seq := s.nextSeq(productID)

	var (
		prev  models.CartItem
		index = -1
	)
	s.store.Dispatch(store.ActionCartItemRemoved, func(st *store.State) {
		index = st.Cart.IndexOf(productID)
		if index < 0 {
			return
		}
		prev = st.Cart.Items[index]
		st.Cart.Items = append(st.Cart.Items[:index], st.Cart.Items[index+1:]...)
		st.Cart.Error = ""
	})
	if index < 0 {
		return ErrCartItemNotFound
	}

	if err := s.api.RemoveCartItem(ctx, productID); err != nil {
		s.rollback(productID, seq, prev, index, err)
		logger.Warnw("cart_remove_failed", "product_id", productID, "error", err)
		return err
	}
	return nil
}

// Clear 清空本地购物车，并丢弃进行中的拉取结果
func (s *CartService) Clear() {
	s.Invalidate()
	s.mu.Lock()
	s.seq = make(map[uint]uint64)
	s.mu.Unlock()
	s.store.Dispatch(store.ActionCartCleared, func(st *store.State) {
		st.Cart = store.CartState{
			Items:  []models.CartItem{},
			Status: constants.RequestStatusIdle,
		}
	})
}

// Invalidate 使进行中的拉取失效
func (s *CartService) Invalidate() {
	gen := s.fetchGen.Add(1)
	s.store.Dispatch(store.ActionCartInvalidated, func(st *store.State) {
		if st.Cart.Status == constants.RequestStatusLoading {
			st.Cart.Status = constants.RequestStatusIdle
		}
		st.Cart.Generation = gen
	})
}

// Subtotal 购物车小计
func (s *CartService) Subtotal() models.Money {
	return s.store.Cart().Subtotal()
}

// TotalQuantity 导航角标数量
func (s *CartService) TotalQuantity() int {
	return s.store.Cart().TotalQuantity()
}

func (s *CartService) nextSeq(productID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	s.seq[productID] = s.counter
	return s.counter
}

func (s *CartService) isLatest(productID uint, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[productID] == seq
}

// rollback 仅当该商品没有更新的修改时恢复快照
func (s *CartService) rollback(productID uint, seq uint64, prev models.CartItem, index int, cause error) {
	s.store.Dispatch(store.ActionCartItemRolledBack, func(st *store.State) {
		st.Cart.Error = api.Message(cause)
		if !s.isLatest(productID, seq) {
			return
		}
		if idx := st.Cart.IndexOf(productID); idx >= 0 {
			st.Cart.Items[idx] = prev
			return
		}
		if index > len(st.Cart.Items) {
			index = len(st.Cart.Items)
		}
		st.Cart.Items = append(st.Cart.Items, models.CartItem{})
		copy(st.Cart.Items[index+1:], st.Cart.Items[index:])
		st.Cart.Items[index] = prev
	})
}

func (s *CartService) fail(err error) {
	s.store.Dispatch(store.ActionCartMutationFailed, func(st *store.State) {
		st.Cart.Error = api.Message(err)
	})
}
