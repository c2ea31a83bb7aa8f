package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/user/vidtube/internal/utils"
)

func newFeedService(videos VideoStore, pageSize int) *FeedService {
	utils.InitCache()
	return NewFeedService(videos, pageSize, rand.New(rand.NewSource(1)))
}

func manyVideos(n int, tags ...string) *fakeVideoStore {
	store := &fakeVideoStore{}
	for i := 0; i < n; i++ {
		store.videos = append(store.videos, newVideo(fmt.Sprintf("v%03d", i), fmt.Sprintf("Video %03d", i), tags...))
	}
	return store
}

func TestFeedPagination(t *testing.T) {
	store := manyVideos(95)
	svc := newFeedService(store, 40)

	tests := []struct {
		name       string
		page       int
		wantCount  int
		wantPages  int
		wantTotal  int
		wantFirst  string
		checkFirst bool
	}{
		{name: "第一页", page: 1, wantCount: 40, wantPages: 3, wantTotal: 95, wantFirst: "v000", checkFirst: true},
		{name: "第二页", page: 2, wantCount: 40, wantPages: 3, wantTotal: 95, wantFirst: "v040", checkFirst: true},
		{name: "末页不满", page: 3, wantCount: 15, wantPages: 3, wantTotal: 95},
		{name: "越界页", page: 9, wantCount: 0, wantPages: 3, wantTotal: 95},
		{name: "页码小于1按1处理", page: 0, wantCount: 40, wantPages: 3, wantTotal: 95, wantFirst: "v000", checkFirst: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := svc.Page(context.Background(), tt.page, "", "")
			if len(page.Videos) != tt.wantCount {
				t.Errorf("条数: 期望 %d，实际 %d", tt.wantCount, len(page.Videos))
			}
			if page.TotalPages != tt.wantPages {
				t.Errorf("总页数: 期望 %d，实际 %d", tt.wantPages, page.TotalPages)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("总数: 期望 %d，实际 %d", tt.wantTotal, page.Total)
			}
			if tt.checkFirst && len(page.Videos) > 0 && page.Videos[0].ID != tt.wantFirst {
				t.Errorf("首条: 期望 %s，实际 %s", tt.wantFirst, page.Videos[0].ID)
			}
		})
	}
}

func TestFeedCategoryFilterExactMatch(t *testing.T) {
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("a", "A", "Auto"),
		newVideo("b", "B", "AUTO", "Sport"),
		newVideo("c", "C", "Autorennen"), // 前缀相同但不相等，不能命中
		newVideo("d", "D", "Sport"),
	)

	svc := newFeedService(store, 40)
	page := svc.Page(context.Background(), 1, "auto", "")

	if page.Total != 2 {
		t.Fatalf("分类过滤应精确匹配（不区分大小写），期望 2 条，实际 %d 条", page.Total)
	}
	for _, v := range page.Videos {
		if v.ID == "c" {
			t.Error("子串命中不应通过分类过滤")
		}
	}
}

func TestFeedSearchSubstringMatch(t *testing.T) {
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("a", "Bergwandern im Sommer"),
		newVideo("b", "Stadtleben", "bergsteigen"),
		newVideo("c", "Seeblick"),
	)

	svc := newFeedService(store, 40)
	page := svc.Page(context.Background(), 1, "", "BERG")

	if page.Total != 2 {
		t.Fatalf("搜索应匹配标题或标签子串，期望 2 条，实际 %d 条", page.Total)
	}
}

func TestFeedSearchWinsOverCategory(t *testing.T) {
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("a", "Treffer Suche", "Anderes"),
		newVideo("b", "Nur Kategorie", "Auto"),
	)

	svc := newFeedService(store, 40)
	// 同时给 category 和 search，search 生效
	page := svc.Page(context.Background(), 1, "Auto", "Treffer")

	if page.Total != 1 || page.Videos[0].ID != "a" {
		t.Fatalf("search 与 category 互斥且 search 优先，实际 %+v", page.Videos)
	}
}

func TestFeedSearchBlankIsIgnored(t *testing.T) {
	store := manyVideos(3)
	svc := newFeedService(store, 40)

	page := svc.Page(context.Background(), 1, "", "   ")
	if page.Total != 3 {
		t.Fatalf("纯空白搜索词应当作无搜索处理，期望 3 条，实际 %d 条", page.Total)
	}
}

func TestInterleaveAds(t *testing.T) {
	store := manyVideos(14)
	svc := newFeedService(store, 40)
	page := svc.Page(context.Background(), 1, "", "")

	items := svc.InterleaveAds(page.Videos)

	// 14 条真实视频，第 6 和第 12 条之后各插一个广告位
	if len(items) != 16 {
		t.Fatalf("期望 16 项（14 视频 + 2 广告），实际 %d 项", len(items))
	}

	adPositions := []int{6, 13}
	for _, pos := range adPositions {
		if !items[pos].IsAd {
			t.Errorf("位置 %d 应是广告位", pos)
		}
	}

	realCount := 0
	for _, item := range items {
		if !item.IsAd {
			if item.Video == nil {
				t.Fatal("非广告项必须携带视频")
			}
			realCount++
		}
	}
	if realCount != 14 {
		t.Errorf("真实视频数不应被广告位改变，期望 14，实际 %d", realCount)
	}
}

func TestInterleaveAdsNoTrailingAdUnderStride(t *testing.T) {
	store := manyVideos(5)
	svc := newFeedService(store, 40)
	page := svc.Page(context.Background(), 1, "", "")

	items := svc.InterleaveAds(page.Videos)
	if len(items) != 5 {
		t.Fatalf("不足 %d 条时不应插广告，实际 %d 项", AdStride, len(items))
	}
}

func TestResolveSlug(t *testing.T) {
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("a", "Schöne Berge & Täler"),
		newVideo("b", "Anderes Video"),
	)

	svc := newFeedService(store, 40)

	v, err := svc.ResolveSlug(context.Background(), utils.Slugify("Schöne Berge & Täler"))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if v == nil || v.ID != "a" {
		t.Fatalf("期望命中视频 a，实际 %+v", v)
	}

	// 未命中与错误区分开
	v, err = svc.ResolveSlug(context.Background(), "gibt-es-nicht")
	if err != nil {
		t.Fatalf("未命中不应报错: %v", err)
	}
	if v != nil {
		t.Fatalf("未命中应返回 nil，实际 %+v", v)
	}
}

func TestPopularToday(t *testing.T) {
	store := manyVideos(30)
	svc := newFeedService(store, 40)

	picked := svc.PopularToday(context.Background(), PopularTodaySize)
	if len(picked) != PopularTodaySize {
		t.Fatalf("期望抽 %d 条，实际 %d 条", PopularTodaySize, len(picked))
	}

	// 无放回抽样，不应重复
	seen := make(map[string]bool)
	for _, v := range picked {
		if seen[v.ID] {
			t.Errorf("热门栏目不应重复: %s", v.ID)
		}
		seen[v.ID] = true
	}
}

func TestPopularTodaySmallStore(t *testing.T) {
	store := manyVideos(5)
	svc := newFeedService(store, 40)

	picked := svc.PopularToday(context.Background(), PopularTodaySize)
	if len(picked) != 5 {
		t.Fatalf("库存不足时应全部返回，期望 5 条，实际 %d 条", len(picked))
	}
}

func TestFeedRandomEmptyStore(t *testing.T) {
	svc := newFeedService(&fakeVideoStore{}, 40)
	if v := svc.Random(context.Background()); v != nil {
		t.Fatalf("空库随机应返回 nil，实际 %+v", v)
	}
}
