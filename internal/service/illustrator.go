package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// illustratorConcurrency 同时在途的生图请求上限
	illustratorConcurrency = 2
	// DefaultIllustratorStagger 相邻两次派发之间的间隔
	DefaultIllustratorStagger = 3 * time.Second
)

// IllustratorService 分类配图补全
// 给没有配图的人工分类挨个调生图接口。第三方接口又慢又容易限流，
// 所以派发带间隔、并发上信号量，失败只记日志
type IllustratorService struct {
	categories *CategoryService
	store      CategoryStore
	generator  ImageGenerator
	stagger    time.Duration
	sem        *semaphore.Weighted
}

// NewIllustratorService 创建配图补全服务
func NewIllustratorService(categories *CategoryService, store CategoryStore, generator ImageGenerator, stagger time.Duration) *IllustratorService {
	if stagger <= 0 {
		stagger = DefaultIllustratorStagger
	}
	return &IllustratorService{
		categories: categories,
		store:      store,
		generator:  generator,
		stagger:    stagger,
		sem:        semaphore.NewWeighted(illustratorConcurrency),
	}
}

// Backfill 为所有缺图分类补配图，返回成功张数
// 随 ctx 取消整体中止；两次派发之间隔 stagger
func (s *IllustratorService) Backfill(ctx context.Context) int {
	all, err := s.store.ListAll()
	if err != nil {
		log.Printf("[Illustrator] 加载分类列表失败: %v", err)
		return 0
	}

	var pending []string
	for _, c := range all {
		if !c.HasImage() {
			pending = append(pending, c.Name)
		}
	}
	if len(pending) == 0 {
		return 0
	}
	log.Printf("[Illustrator] 待补配图分类 %d 个", len(pending))

	var wg sync.WaitGroup
	var mu sync.Mutex
	generated := 0

	for i, name := range pending {
		if i > 0 {
			if !sleepCtx(ctx, s.stagger) {
				break
			}
		}
		if err := s.sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer s.sem.Release(1)
			if s.illustrate(ctx, name) {
				mu.Lock()
				generated++
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()
	if generated > 0 {
		s.categories.Invalidate()
	}
	log.Printf("[Illustrator] 本轮补图完成，成功 %d 张", generated)
	return generated
}

// illustrate 给单个分类生成并落库配图
func (s *IllustratorService) illustrate(ctx context.Context, name string) bool {
	// 排队期间可能已经有人补过图了，生成前再查一次
	current, err := s.store.FindByName(name)
	if err != nil {
		log.Printf("[Illustrator] 复查分类 %q 失败: %v", name, err)
		return false
	}
	if current != nil && current.HasImage() {
		return false
	}

	imageURL, err := s.generator.GenerateCategoryImage(ctx, name)
	if err != nil {
		log.Printf("[Illustrator] 分类 %q 生图失败: %v", name, err)
		return false
	}

	if err := s.store.UpsertImage(name, imageURL); err != nil {
		log.Printf("[Illustrator] 分类 %q 配图落库失败: %v", name, err)
		return false
	}

	log.Printf("[Illustrator] 分类 %q 配图完成", name)
	return true
}

// Start 启动周期性补图任务，随 ctx 退出
func (s *IllustratorService) Start(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)

	// 启动时先跑一轮
	go s.Backfill(ctx)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Backfill(ctx)
			}
		}
	}()
}

// sleepCtx 可取消的 sleep，被取消返回 false
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
