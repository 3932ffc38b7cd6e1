package service

import (
	"context"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"

	validatorv10 "github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

// CatalogService 商品目录，Redis 缓存 + singleflight 合并并发拉取
type CatalogService struct {
	store    *store.Store
	api      CatalogAPI
	ttl      time.Duration
	sfg      singleflight.Group
	validate *validatorv10.Validate
}

// NewCatalogService 创建目录服务
func NewCatalogService(st *store.Store, catalogAPI CatalogAPI, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{
		store:    st,
		api:      catalogAPI,
		ttl:      ttl,
		validate: newValidator(),
	}
}

// ListProducts 商品列表
func (s *CatalogService) ListProducts(ctx context.Context, forceRefresh bool) ([]models.Product, error) {
	v, err, _ := s.sfg.Do(cache.CatalogProductsKey, func() (interface{}, error) {
		if !forceRefresh {
			var cached []models.Product
			hit, cacheErr := cache.GetJSON(ctx, cache.CatalogProductsKey, &cached)
			if cacheErr != nil {
				logger.Warnw("catalog_cache_get_failed", "key", cache.CatalogProductsKey, "error", cacheErr)
			}
			if cacheErr == nil && hit {
				return cached, nil
			}
		}
		products, err := s.api.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, cache.CatalogProductsKey, products, s.ttl); err != nil {
			logger.Warnw("catalog_cache_set_failed", "key", cache.CatalogProductsKey, "error", err)
		}
		return products, nil
	})
	if err != nil {
		s.reject(err)
		return nil, err
	}
	products := v.([]models.Product)
	s.store.Dispatch(store.ActionCatalogProducts, func(st *store.State) {
		st.Catalog.Products = append([]models.Product(nil), products...)
		st.Catalog.Error = ""
	})
	return products, nil
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories(ctx context.Context, forceRefresh bool) ([]models.Category, error) {
	v, err, _ := s.sfg.Do(cache.CatalogCategoriesKey, func() (interface{}, error) {
		if !forceRefresh {
			var cached []models.Category
			hit, cacheErr := cache.GetJSON(ctx, cache.CatalogCategoriesKey, &cached)
			if cacheErr == nil && hit {
				return cached, nil
			}
		}
		categories, err := s.api.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		_ = cache.SetJSON(ctx, cache.CatalogCategoriesKey, categories, s.ttl)
		return categories, nil
	})
	if err != nil {
		s.reject(err)
		return nil, err
	}
	categories := v.([]models.Category)
	s.store.Dispatch(store.ActionCatalogCategories, func(st *store.State) {
		st.Catalog.Categories = append([]models.Category(nil), categories...)
		st.Catalog.Error = ""
	})
	return categories, nil
}

// CreateProduct 创建商品（管理员）
func (s *CatalogService) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := validateStruct(s.validate, ErrValidation, product); err != nil {
		return nil, err
	}
	created, err := s.api.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.CatalogProductsKey)
	return created, nil
}

// UpdateProduct 更新商品（管理员）
func (s *CatalogService) UpdateProduct(ctx context.Context, productID uint, product models.Product) (*models.Product, error) {
	if err := validateStruct(s.validate, ErrValidation, product); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateProduct(ctx, productID, product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.CatalogProductsKey, cache.CatalogProductKey(productID))
	return updated, nil
}

// DeleteProduct 删除商品（管理员）
func (s *CatalogService) DeleteProduct(ctx context.Context, productID uint) error {
	if err := s.api.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx, cache.CatalogProductsKey, cache.CatalogProductKey(productID))
	s.store.Dispatch(store.ActionCatalogProducts, func(st *store.State) {
		kept := st.Catalog.Products[:0]
		for _, p := range st.Catalog.Products {
			if p.ProductID != productID {
				kept = append(kept, p)
			}
		}
		st.Catalog.Products = kept
	})
	return nil
}

// CreateCategory 创建分类（管理员）
func (s *CatalogService) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	if err := validateStruct(s.validate, ErrValidation, category); err != nil {
		return nil, err
	}
	created, err := s.api.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.CatalogCategoriesKey)
	return created, nil
}

// UpdateCategory 更新分类（管理员）
func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID uint, category models.Category) (*models.Category, error) {
	if err := validateStruct(s.validate, ErrValidation, category); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateCategory(ctx, categoryID, category)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.CatalogCategoriesKey)
	return updated, nil
}

// DeleteCategory 删除分类（管理员）
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID uint) error {
	if err := s.api.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.invalidate(ctx, cache.CatalogCategoriesKey)
	s.store.Dispatch(store.ActionCatalogCategories, func(st *store.State) {
		kept := st.Catalog.Categories[:0]
		for _, c := range st.Catalog.Categories {
			if c.CategoryID != categoryID {
				kept = append(kept, c)
			}
		}
		st.Catalog.Categories = kept
	})
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, keys...); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "keys", keys, "error", err)
	}
}

func (s *CatalogService) reject(err error) {
	s.store.Dispatch(store.ActionCatalogRejected, func(st *store.State) {
		st.Catalog.Error = api.Message(err)
	})
}
