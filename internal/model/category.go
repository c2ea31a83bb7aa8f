package model

import "time"

// Category 人工维护的分类行
// Name 大小写按录入时保留，比对一律不区分大小写
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"unique;not null"`
	ImageURL    *string   `json:"image_url,omitempty" gorm:"column:image_url"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// HasImage 是否已有配图
func (c *Category) HasImage() bool {
	return c.ImageURL != nil && *c.ImageURL != ""
}

// DerivedCategory 从视频标签推导出来的分类视图
// 只存在于内存和缓存里，不落库。没有匹配到人工分类行时 ID 直接用标签名占位
type DerivedCategory struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ImageURL    *string `json:"image_url,omitempty"`
	Description *string `json:"description,omitempty"`
	Curated     bool    `json:"-"`
}

// MigrationSummary 标签迁移结果统计
// 字段名是线上约定的返回格式，改动会破坏调用方
type MigrationSummary struct {
	TotalVideos          int      `json:"totalVideos"`
	UniqueTags           int      `json:"uniqueTags"`
	ExistingCategories   int      `json:"existingCategories"`
	NewCategoriesCreated int      `json:"newCategoriesCreated"`
	Errors               int      `json:"errors"`
	CategoriesCreated    []string `json:"categoriesCreated"`
}
