package cache

import (
	"context"
	"testing"
	"time"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	UseClient(nil, "")
	ctx := context.Background()

	if Enabled() {
		t.Fatalf("cache should be disabled without client")
	}
	var dest []string
	hit, err := GetJSON(ctx, CatalogProductsKey, &dest)
	if err != nil || hit {
		t.Fatalf("disabled get should miss silently, hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, CatalogProductsKey, []string{"a"}, time.Minute); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
	if err := Del(ctx, CatalogProductsKey, CatalogCategoriesKey); err != nil {
		t.Fatalf("disabled del should be noop: %v", err)
	}
	if err := Publish(ctx, "chat", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("disabled publish should be noop: %v", err)
	}
	if Subscribe(ctx, "chat") != nil {
		t.Fatalf("disabled subscribe should return nil")
	}
}

func TestBuildKey(t *testing.T) {
	UseClient(nil, "sf")
	if got := buildKey(CatalogProductKey(3)); got != "sf:catalog:product:3" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey(ChatRoomChannel("complaints", 9)); got != "sf:chat:complaints:room:9" {
		t.Fatalf("unexpected channel: %s", got)
	}
}
