package service

import (
	"context"
	"log"
	"math/rand"
	"sync"

	"github.com/user/vidtube/internal/model"
)

const (
	// ShortsInitialBatch 短视频流的初始批量
	ShortsInitialBatch = 3
	// ShortsLookahead 客户端预取水位：滑到倒数第 2 条时取下一条
	ShortsLookahead = 2
)

// ShortsService 短视频流
// 每次取条目都在可播放池上独立随机抽样，允许重复出现；
// 服务端不维护会话状态，预取节奏由客户端按水位控制
type ShortsService struct {
	videos VideoStore
	rnd    *rand.Rand
	mu     sync.Mutex // 保护 rnd
}

// NewShortsService 创建短视频服务
func NewShortsService(videos VideoStore, rnd *rand.Rand) *ShortsService {
	return &ShortsService{videos: videos, rnd: rnd}
}

// pool 可播放视频池（embed 非空）
func (s *ShortsService) pool() []*model.Video {
	videos, err := s.videos.ListEmbeddable()
	if err != nil {
		log.Printf("[ShortsService] 加载可播放视频失败: %v", err)
		return nil
	}
	return videos
}

// InitialBatch 返回初始批量，池子不足时有多少给多少
func (s *ShortsService) InitialBatch(ctx context.Context) []*model.Video {
	pool := s.pool()
	if len(pool) == 0 {
		return []*model.Video{}
	}

	n := ShortsInitialBatch
	if len(pool) < n {
		n = len(pool)
	}

	s.mu.Lock()
	perm := s.rnd.Perm(len(pool))
	s.mu.Unlock()

	batch := make([]*model.Video, 0, n)
	for _, idx := range perm[:n] {
		batch = append(batch, pool[idx])
	}
	return batch
}

// Next 随机再抽一条，和之前出现过的条目无关
func (s *ShortsService) Next(ctx context.Context) *model.Video {
	pool := s.pool()
	if len(pool) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rnd.Intn(len(pool))
	s.mu.Unlock()
	return pool[idx]
}
