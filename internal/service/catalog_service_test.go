package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"
)

type catalogAPIStub struct {
	gate        chan struct{}
	listCalls   int32
	createCalls int32
	products    []models.Product
	categories  []models.Category
	deletedIDs  []uint
}

func (s *catalogAPIStub) ListProducts(ctx context.Context) ([]models.Product, error) {
	atomic.AddInt32(&s.listCalls, 1)
	if s.gate != nil {
		<-s.gate
	}
	return s.products, nil
}

func (s *catalogAPIStub) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	atomic.AddInt32(&s.createCalls, 1)
	product.ProductID = 100
	return &product, nil
}

func (s *catalogAPIStub) UpdateProduct(ctx context.Context, productID uint, product models.Product) (*models.Product, error) {
	product.ProductID = productID
	return &product, nil
}

func (s *catalogAPIStub) DeleteProduct(ctx context.Context, productID uint) error {
	s.deletedIDs = append(s.deletedIDs, productID)
	return nil
}

func (s *catalogAPIStub) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *catalogAPIStub) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	category.CategoryID = 50
	return &category, nil
}

func (s *catalogAPIStub) UpdateCategory(ctx context.Context, categoryID uint, category models.Category) (*models.Category, error) {
	category.CategoryID = categoryID
	return &category, nil
}

func (s *catalogAPIStub) DeleteCategory(ctx context.Context, categoryID uint) error {
	return nil
}

func TestCatalogListProductsSharesInFlightRequest(t *testing.T) {
	st := store.New()
	stub := &catalogAPIStub{
		gate:     make(chan struct{}),
		products: []models.Product{{ProductID: 1, ProductName: "Kemeja"}, {ProductID: 2, ProductName: "Celana"}},
	}
	svc := NewCatalogService(st, stub, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := svc.ListProducts(context.Background(), false)
			if err != nil || len(products) != 2 {
				t.Errorf("list products failed: %v %v", products, err)
			}
		}()
	}
	waitFor(t, func() bool { return atomic.LoadInt32(&stub.listCalls) == 1 })
	time.Sleep(20 * time.Millisecond)
	close(stub.gate)
	wg.Wait()

	if calls := atomic.LoadInt32(&stub.listCalls); calls != 1 {
		t.Fatalf("concurrent lists should share one request, got %d", calls)
	}
	if got := len(st.Catalog().Products); got != 2 {
		t.Fatalf("store should hold 2 products got %d", got)
	}
}

func TestCatalogDeleteProductUpdatesStore(t *testing.T) {
	st := store.New()
	stub := &catalogAPIStub{products: []models.Product{{ProductID: 1}, {ProductID: 2}}}
	svc := NewCatalogService(st, stub, time.Minute)

	if _, err := svc.ListProducts(context.Background(), true); err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if err := svc.DeleteProduct(context.Background(), 1); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	products := st.Catalog().Products
	if len(products) != 1 || products[0].ProductID != 2 {
		t.Fatalf("unexpected products after delete: %+v", products)
	}
	if len(stub.products) != 2 || stub.products[0].ProductID != 1 {
		t.Fatalf("delete must not mutate the fetched slice: %+v", stub.products)
	}
}

func TestCatalogCreateProductValidation(t *testing.T) {
	stub := &catalogAPIStub{}
	svc := NewCatalogService(store.New(), stub, time.Minute)

	_, err := svc.CreateProduct(context.Background(), models.Product{ProductPrice: models.NewMoneyFromInt(1000)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing fields want ErrValidation got %v", err)
	}
	if calls := atomic.LoadInt32(&stub.createCalls); calls != 0 {
		t.Fatalf("invalid product should not be sent, got %d calls", calls)
	}

	created, err := svc.CreateProduct(context.Background(), models.Product{
		ProductName:       "Kemeja",
		ProductPrice:      models.NewMoneyFromInt(150000),
		ProductStock:      3,
		ProductCategoryID: 2,
	})
	if err != nil || created.ProductID != 100 {
		t.Fatalf("create product failed: %+v %v", created, err)
	}
}

func TestCatalogCategories(t *testing.T) {
	st := store.New()
	svc := NewCatalogService(st, &catalogAPIStub{categories: []models.Category{{CategoryID: 1, CategoryName: "Pria"}}}, 0)

	if _, err := svc.ListCategories(context.Background(), false); err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if err := svc.DeleteCategory(context.Background(), 1); err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	if got := len(st.Catalog().Categories); got != 0 {
		t.Fatalf("category should be removed, got %d", got)
	}
	if _, err := svc.CreateCategory(context.Background(), models.Category{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty category want ErrValidation got %v", err)
	}
}
