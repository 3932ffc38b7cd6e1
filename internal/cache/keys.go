package cache

import "fmt"

// 商品目录缓存键
const (
	CatalogProductsKey   = "catalog:products"
	CatalogCategoriesKey = "catalog:categories"
)

// CatalogProductKey 单个商品缓存键
func CatalogProductKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// ChatRoomChannel 聊天房间广播频道
func ChatRoomChannel(channel string, roomID uint) string {
	return fmt.Sprintf("chat:%s:room:%d", channel, roomID)
}
