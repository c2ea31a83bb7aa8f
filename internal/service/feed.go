package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/utils"
)

const (
	feedSnapshotKey = "feed:snapshot"
	feedSnapshotTTL = 30 * time.Second

	// AdStride 每多少条真实视频后插一个广告位
	AdStride = 6

	// PopularTodaySize 首页“今日热门”栏目的条数
	PopularTodaySize = 20
)

// FeedService 视频流分页
// 在内存快照上做过滤和分页：候选集按时间倒序取一次，短 TTL 缓存顶在仓库前面，
// 搜索结果页再单独走一层 LRU
type FeedService struct {
	videos      VideoStore
	pageSize    int
	searchCache *utils.SearchCache[FeedPage]
	rnd         *rand.Rand
	mu          sync.Mutex // 保护 rnd
}

// NewFeedService 创建视频流服务
func NewFeedService(videos VideoStore, pageSize int, rnd *rand.Rand) *FeedService {
	if pageSize <= 0 {
		pageSize = 40
	}
	return &FeedService{
		videos:      videos,
		pageSize:    pageSize,
		searchCache: utils.NewSearchCache[FeedPage](500, 5*time.Minute),
		rnd:         rnd,
	}
}

// FeedPage 一页视频流
type FeedPage struct {
	Videos     []*model.Video
	Page       int
	TotalPages int
	Total      int
}

// FeedItem 渲染序列里的一项：真实视频或广告占位
type FeedItem struct {
	Video *model.Video
	IsAd  bool
}

// Page 组装第 page 页
// search 和 category 互斥，search 优先；排序永远是创建时间倒序；
// 页码越界返回空列表但带正确的总数
func (s *FeedService) Page(ctx context.Context, page int, category, search string) *FeedPage {
	if page < 1 {
		page = 1
	}
	search = strings.TrimSpace(search)

	if search != "" {
		cacheKey := fmt.Sprintf("%s|%d", strings.ToLower(search), page)
		if cached, ok := s.searchCache.Get(cacheKey); ok {
			return &cached
		}
		result := s.assemble(page, func(v *model.Video) bool {
			return matchesSearch(v, search)
		})
		s.searchCache.Set(cacheKey, *result)
		return result
	}

	if category != "" {
		return s.assemble(page, func(v *model.Video) bool {
			return matchesCategory(v, category)
		})
	}

	return s.assemble(page, nil)
}

// assemble 在快照上过滤并切页
func (s *FeedService) assemble(page int, match func(*model.Video) bool) *FeedPage {
	videos := s.snapshot()

	if match != nil {
		filtered := make([]*model.Video, 0, len(videos))
		for _, v := range videos {
			if match(v) {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}

	total := len(videos)
	totalPages := (total + s.pageSize - 1) / s.pageSize

	start := (page - 1) * s.pageSize
	if start >= total {
		return &FeedPage{Videos: []*model.Video{}, Page: page, TotalPages: totalPages, Total: total}
	}
	end := start + s.pageSize
	if end > total {
		end = total
	}

	return &FeedPage{
		Videos:     videos[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// snapshot 时间倒序的全量候选集，短 TTL 缓存
func (s *FeedService) snapshot() []*model.Video {
	if cached, ok := utils.CacheGet(feedSnapshotKey); ok {
		return cached.([]*model.Video)
	}

	videos, err := s.videos.ListRecent()
	if err != nil {
		log.Printf("[FeedService] 加载视频列表失败: %v", err)
		return []*model.Video{}
	}

	utils.CacheSet(feedSnapshotKey, videos, feedSnapshotTTL)
	return videos
}

// matchesCategory 任一标签槽位与分类名完全相等（不区分大小写）
func matchesCategory(v *model.Video, category string) bool {
	for _, tag := range v.Tags() {
		if strings.EqualFold(tag, category) {
			return true
		}
	}
	return false
}

// matchesSearch 标题或任一标签包含搜索词（子串，不区分大小写）
func matchesSearch(v *model.Video, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(v.Title), term) {
		return true
	}
	for _, tag := range v.Tags() {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// InterleaveAds 把广告占位插进渲染序列：每 AdStride 条真实视频后插一个
// 只影响渲染顺序，分页和总数统计永远按真实视频算
func (s *FeedService) InterleaveAds(videos []*model.Video) []FeedItem {
	items := make([]FeedItem, 0, len(videos)+len(videos)/AdStride)
	for i, v := range videos {
		items = append(items, FeedItem{Video: v})
		if (i+1)%AdStride == 0 {
			items = append(items, FeedItem{IsAd: true})
		}
	}
	return items
}

// ResolveSlug 按 slug 找视频
// 找不到返回 (nil, nil)，和存储错误区分开
func (s *FeedService) ResolveSlug(ctx context.Context, slug string) (*model.Video, error) {
	videos, err := s.videos.ListRecent()
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		if utils.Slugify(v.Title) == slug {
			return v, nil
		}
	}
	return nil, nil
}

// PopularToday 首页热门栏目：从全量里随机抽 n 条（无放回），不足 n 条时全给
// 没有播放统计可用，随机选就是这个栏目的既定口径
func (s *FeedService) PopularToday(ctx context.Context, n int) []*model.Video {
	videos := s.snapshot()
	if len(videos) <= n {
		return videos
	}

	s.mu.Lock()
	perm := s.rnd.Perm(len(videos))
	s.mu.Unlock()

	picked := make([]*model.Video, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, videos[idx])
	}
	return picked
}

// Random 随机返回一条视频，库为空返回 nil
func (s *FeedService) Random(ctx context.Context) *model.Video {
	videos := s.snapshot()
	if len(videos) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rnd.Intn(len(videos))
	s.mu.Unlock()
	return videos[idx]
}

// InvalidateSnapshot 新增视频后让快照立即失效
func (s *FeedService) InvalidateSnapshot() {
	utils.CacheDelete(feedSnapshotKey)
	s.searchCache.Clear()
}
