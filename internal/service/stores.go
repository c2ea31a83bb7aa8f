package service

import (
	"context"

	"github.com/user/vidtube/internal/model"
)

// VideoStore 服务层需要的视频读写能力，repository.VideoRepository 是生产实现
type VideoStore interface {
	ListRecent() ([]*model.Video, error)
	ListEmbeddable() ([]*model.Video, error)
	FindByID(id string) (*model.Video, error)
	Insert(video *model.Video) (*model.Video, error)
}

// CategoryStore 服务层需要的分类读写能力
type CategoryStore interface {
	ListAll() ([]*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Insert(category *model.Category) error
	UpsertImage(name, imageURL string) error
}

// ImageGenerator 分类配图生成器，utils.RunwareClient 是生产实现
type ImageGenerator interface {
	GenerateCategoryImage(ctx context.Context, categoryName string) (string, error)
}
