package models

// DefaultCategories 初始分类数据
func DefaultCategories() []Category {
	return []Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Fashion", Slug: "fashion"},
		{Name: "Home & Garden", Slug: "home-garden"},
		{Name: "Sports & Outdoors", Slug: "sports-outdoors"},
		{Name: "Collectibles", Slug: "collectibles"},
		{Name: "Books & Media", Slug: "books-media"},
	}
}
