package service

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	derivedCacheKey = "categories:derived"
	derivedCacheTTL = time.Minute

	// HomeSampleSize 首页展示的分类数量
	HomeSampleSize = 8
)

// CategoryService 分类服务
// 分类视图不是一张表，而是从全部视频的标签槽位现场推导出来的，
// 人工维护的 categories 表只贡献配图、描述和标准拼写
type CategoryService struct {
	videos     VideoStore
	categories CategoryStore
	sf         singleflight.Group
	rnd        *rand.Rand
	mu         sync.Mutex // 保护 rnd
}

// NewCategoryService 创建分类服务
func NewCategoryService(videos VideoStore, categories CategoryStore, rnd *rand.Rand) *CategoryService {
	return &CategoryService{
		videos:     videos,
		categories: categories,
		rnd:        rnd,
	}
}

// DeriveAll 推导全量分类视图
// singleflight 合并并发推导，结果缓存 1 分钟；任一存储失败降级为空列表
func (s *CategoryService) DeriveAll(ctx context.Context) []model.DerivedCategory {
	if cached, ok := utils.CacheGet(derivedCacheKey); ok {
		return cached.([]model.DerivedCategory)
	}

	val, err, _ := s.sf.Do(derivedCacheKey, func() (interface{}, error) {
		derived, err := s.derive()
		if err != nil {
			return nil, err
		}
		utils.CacheSet(derivedCacheKey, derived, derivedCacheTTL)
		return derived, nil
	})
	if err != nil {
		log.Printf("[CategoryService] 分类推导失败: %v", err)
		return []model.DerivedCategory{}
	}

	return val.([]model.DerivedCategory)
}

// derive 扫描所有视频标签，合并人工分类，产出排序后的分类视图
func (s *CategoryService) derive() ([]model.DerivedCategory, error) {
	videos, err := s.videos.ListRecent()
	if err != nil {
		return nil, err
	}

	curated, err := s.categories.ListAll()
	if err != nil {
		return nil, err
	}
	curatedByName := make(map[string]*model.Category, len(curated))
	for _, c := range curated {
		curatedByName[strings.ToLower(c.Name)] = c
	}

	// 不区分大小写去重，保留第一次出现的拼写
	seen := make(map[string]string)
	var order []string
	for _, v := range videos {
		for _, tag := range v.Tags() {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; !ok {
				seen[key] = tag
				order = append(order, key)
			}
		}
	}

	derived := make([]model.DerivedCategory, 0, len(order))
	for _, key := range order {
		if c, ok := curatedByName[key]; ok {
			// 人工行存在时以它的拼写和元数据为准
			derived = append(derived, model.DerivedCategory{
				ID:          c.ID,
				Name:        c.Name,
				ImageURL:    c.ImageURL,
				Description: c.Description,
				Curated:     true,
			})
			continue
		}
		derived = append(derived, model.DerivedCategory{
			ID:   seen[key],
			Name: seen[key],
		})
	}

	sort.Slice(derived, func(i, j int) bool {
		return derived[i].Name < derived[j].Name
	})

	return derived, nil
}

// HomeSample 随机抽取 n 个分类用于首页，不足 n 个时全部返回
func (s *CategoryService) HomeSample(ctx context.Context, n int) []model.DerivedCategory {
	all := s.DeriveAll(ctx)
	if len(all) <= n {
		return all
	}

	s.mu.Lock()
	perm := s.rnd.Perm(len(all))
	s.mu.Unlock()

	sample := make([]model.DerivedCategory, 0, n)
	for _, idx := range perm[:n] {
		sample = append(sample, all[idx])
	}
	return sample
}

// ListWithImages 返回已有配图的人工分类
func (s *CategoryService) ListWithImages(ctx context.Context) ([]*model.Category, error) {
	all, err := s.categories.ListAll()
	if err != nil {
		return nil, err
	}
	withImages := make([]*model.Category, 0, len(all))
	for _, c := range all {
		if c.HasImage() {
			withImages = append(withImages, c)
		}
	}
	return withImages, nil
}

// UpdateImage 更新分类配图并让推导缓存失效
func (s *CategoryService) UpdateImage(ctx context.Context, name, imageURL string) error {
	if err := s.categories.UpsertImage(name, imageURL); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// EnsureCategories 为一组标签补建缺失的分类行
// add-video 的旁路操作，单条失败只记日志不阻断
func (s *CategoryService) EnsureCategories(ctx context.Context, tags []string) {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		existing, err := s.categories.FindByName(tag)
		if err != nil {
			log.Printf("[CategoryService] 查询分类 %q 失败: %v", tag, err)
			continue
		}
		if existing != nil {
			continue
		}
		if err := s.categories.Insert(&model.Category{Name: tag}); err != nil {
			log.Printf("[CategoryService] 创建分类 %q 失败: %v", tag, err)
		}
	}
	s.Invalidate()
}

// MigrateTags 把所有视频标签里缺失的分类一次性补进 categories 表
func (s *CategoryService) MigrateTags(ctx context.Context) (*model.MigrationSummary, error) {
	videos, err := s.videos.ListRecent()
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.ListAll()
	if err != nil {
		return nil, err
	}

	existingNames := make(map[string]bool, len(existing))
	for _, c := range existing {
		existingNames[strings.ToLower(c.Name)] = true
	}

	// 全量视频的去重标签集
	seen := make(map[string]string)
	var order []string
	for _, v := range videos {
		for _, tag := range v.Tags() {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; !ok {
				seen[key] = tag
				order = append(order, key)
			}
		}
	}

	summary := &model.MigrationSummary{
		TotalVideos:        len(videos),
		UniqueTags:         len(order),
		ExistingCategories: len(existing),
		CategoriesCreated:  []string{},
	}

	for _, key := range order {
		if existingNames[key] {
			continue
		}
		name := seen[key]
		if err := s.categories.Insert(&model.Category{Name: name}); err != nil {
			log.Printf("[CategoryService] 迁移创建分类 %q 失败: %v", name, err)
			summary.Errors++
			continue
		}
		summary.NewCategoriesCreated++
		summary.CategoriesCreated = append(summary.CategoriesCreated, name)
	}

	s.Invalidate()
	return summary, nil
}

// Invalidate 清掉分类推导缓存
func (s *CategoryService) Invalidate() {
	utils.CacheDelete(derivedCacheKey)
}
