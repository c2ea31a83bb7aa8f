package repository

import (
	"errors"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListAll 返回全部人工分类
func (r *CategoryRepository) ListAll() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// FindByName 按名字查找分类，不区分大小写，不存在返回 nil
func (r *CategoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Insert 写入新分类行
func (r *CategoryRepository) Insert(category *model.Category) error {
	return r.db.Create(category).Error
}

// UpsertImage 给分类设置配图：存在则更新，不存在则连行一起建
// 比对同样不区分大小写，保留已存在行的拼写
func (r *CategoryRepository) UpsertImage(name, imageURL string) error {
	existing, err := r.FindByName(name)
	if err != nil {
		return err
	}
	if existing != nil {
		return r.db.Model(&model.Category{}).
			Where("id = ?", existing.ID).
			Update("image_url", imageURL).Error
	}
	return r.Insert(&model.Category{Name: name, ImageURL: &imageURL})
}

// Count 分类总数
func (r *CategoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}
