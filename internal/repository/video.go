package repository

import (
	"errors"

	"github.com/user/vidtube/internal/model"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ListRecent 按创建时间倒序返回全部视频
// 整站的候选集就这一个查询，过滤和分页都在服务层做
func (r *VideoRepository) ListRecent() ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.Order("created_at DESC").Find(&videos).Error
	return videos, err
}

// ListEmbeddable 返回可播放的视频（embed 非空），短视频流的抽样池
func (r *VideoRepository) ListEmbeddable() ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.
		Where("embed IS NOT NULL AND TRIM(embed) <> ''").
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// FindByID 根据 ID 查找视频，不存在返回 nil
func (r *VideoRepository) FindByID(id string) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Insert 写入新视频，ID 和时间戳由数据库填充
func (r *VideoRepository) Insert(video *model.Video) (*model.Video, error) {
	if err := r.db.Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

// Count 视频总数
func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Count(&count).Error
	return count, err
}
