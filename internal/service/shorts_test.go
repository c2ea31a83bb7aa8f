package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

func embeddablePool(n int) *fakeVideoStore {
	store := &fakeVideoStore{}
	for i := 0; i < n; i++ {
		v := newVideo(fmt.Sprintf("s%02d", i), fmt.Sprintf("Short %02d", i))
		store.videos = append(store.videos, withEmbed(v, fmt.Sprintf("<iframe src=\"https://player.example.com/%02d\"></iframe>", i)))
	}
	return store
}

func TestShortsInitialBatch(t *testing.T) {
	store := embeddablePool(10)
	svc := NewShortsService(store, rand.New(rand.NewSource(1)))

	batch := svc.InitialBatch(context.Background())
	if len(batch) != ShortsInitialBatch {
		t.Fatalf("期望初始 %d 条，实际 %d 条", ShortsInitialBatch, len(batch))
	}

	// 同一批内不重复
	seen := make(map[string]bool)
	for _, v := range batch {
		if seen[v.ID] {
			t.Errorf("初始批量内不应重复: %s", v.ID)
		}
		seen[v.ID] = true
		if !v.HasEmbed() {
			t.Errorf("批量里不应出现不可播放的视频: %s", v.ID)
		}
	}
}

func TestShortsInitialBatchSmallPool(t *testing.T) {
	store := embeddablePool(2)
	svc := NewShortsService(store, rand.New(rand.NewSource(1)))

	batch := svc.InitialBatch(context.Background())
	if len(batch) != 2 {
		t.Fatalf("池子不足时有多少给多少，期望 2 条，实际 %d 条", len(batch))
	}
}

func TestShortsSkipsVideosWithoutEmbed(t *testing.T) {
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		withEmbed(newVideo("ok", "Spielbar"), "https://player.example.com/ok"),
		newVideo("broken", "Ohne Embed"),
	)

	svc := NewShortsService(store, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		v := svc.Next(context.Background())
		if v == nil {
			t.Fatal("池子非空时 Next 不应返回 nil")
		}
		if v.ID == "broken" {
			t.Fatal("没有 embed 的视频不应进入短视频流")
		}
	}
}

func TestShortsNextAllowsRepeats(t *testing.T) {
	store := embeddablePool(1)
	svc := NewShortsService(store, rand.New(rand.NewSource(1)))

	first := svc.Next(context.Background())
	second := svc.Next(context.Background())
	if first == nil || second == nil {
		t.Fatal("Next 不应返回 nil")
	}
	if first.ID != second.ID {
		t.Fatal("单条池子下重复出现是预期行为")
	}
}

func TestShortsEmptyPool(t *testing.T) {
	svc := NewShortsService(&fakeVideoStore{}, rand.New(rand.NewSource(1)))

	if batch := svc.InitialBatch(context.Background()); len(batch) != 0 {
		t.Fatalf("空池初始批量应为空，实际 %d 条", len(batch))
	}
	if v := svc.Next(context.Background()); v != nil {
		t.Fatalf("空池 Next 应返回 nil，实际 %+v", v)
	}
}
