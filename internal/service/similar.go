package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/user/vidtube/internal/model"
)

// DefaultSimilarLimit 相似推荐默认条数
const DefaultSimilarLimit = 6

// SimilarService 相似视频推荐
// 相似度就是标签集合的交集大小：参考视频的每个标签最多贡献 1 分，
// 不管候选视频把同一个标签填了几个槽位
type SimilarService struct {
	videos VideoStore
}

// NewSimilarService 创建相似推荐服务
func NewSimilarService(videos VideoStore) *SimilarService {
	return &SimilarService{videos: videos}
}

type scoredVideo struct {
	video *model.Video
	score int
}

// FindSimilar 为参考视频找最多 limit 条相似视频
// 参考视频没有标签时直接返回空，不做任何兜底推荐；
// 同分视频保持候选集原有的时间倒序（稳定排序）
func (s *SimilarService) FindSimilar(ctx context.Context, ref *model.Video, limit int) []*model.Video {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	refTags := ref.Tags()
	if len(refTags) == 0 {
		return []*model.Video{}
	}

	refSet := make(map[string]bool, len(refTags))
	for _, t := range refTags {
		refSet[strings.ToLower(t)] = true
	}

	candidates, err := s.videos.ListRecent()
	if err != nil {
		log.Printf("[SimilarService] 加载候选视频失败: %v", err)
		return []*model.Video{}
	}

	scored := make([]scoredVideo, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == ref.ID {
			continue
		}
		score := overlapScore(refSet, c.Tags())
		if score == 0 {
			continue
		}
		scored = append(scored, scoredVideo{video: c, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	result := make([]*model.Video, 0, len(scored))
	for _, sv := range scored {
		result = append(result, sv.video)
	}
	return result
}

// overlapScore 候选标签与参考标签集的交集大小
// 候选侧先去重，重复槽位不会重复计分
func overlapScore(refSet map[string]bool, candidateTags []string) int {
	counted := make(map[string]bool, len(candidateTags))
	score := 0
	for _, t := range candidateTags {
		key := strings.ToLower(t)
		if counted[key] {
			continue
		}
		counted[key] = true
		if refSet[key] {
			score++
		}
	}
	return score
}
