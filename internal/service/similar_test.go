package service

import (
	"context"
	"errors"
	"testing"
)

func TestFindSimilarScoring(t *testing.T) {
	ref := newVideo("ref", "Referenz", "Auto", "Sport", "Natur")

	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("a", "Video A", "auto", "sport", "natur"), // 3 分
		newVideo("b", "Video B", "Auto", "Musik"),          // 1 分
		newVideo("c", "Video C", "Musik", "Kunst"),         // 0 分，被丢弃
		newVideo("d", "Video D", "SPORT", "NATUR"),         // 2 分
		ref,
	)

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)

	wantOrder := []string{"a", "d", "b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("期望 %d 条结果，实际 %d 条", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("位置 %d: 期望 %s，实际 %s", i, id, got[i].ID)
		}
	}
}

func TestFindSimilarEmptyTagsNoFallback(t *testing.T) {
	ref := newVideo("ref", "Ohne Tags")

	store := &fakeVideoStore{}
	store.videos = append(store.videos, newVideo("a", "A", "Auto"))

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)
	if len(got) != 0 {
		t.Fatalf("无标签的参考视频不应有任何推荐，实际 %d 条", len(got))
	}
}

func TestFindSimilarExcludesSelfAndDuplicateTags(t *testing.T) {
	ref := newVideo("ref", "Referenz", "Auto", "Sport")
	// 候选重复填了同一个标签，只能计 1 分
	dup := newVideo("dup", "Doppelt", "Auto", "auto", "AUTO")
	other := newVideo("other", "Anders", "Auto", "Sport")

	store := &fakeVideoStore{}
	store.videos = append(store.videos, ref, dup, other)

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)

	if len(got) != 2 {
		t.Fatalf("期望 2 条结果，实际 %d 条", len(got))
	}
	if got[0].ID != "other" {
		t.Errorf("2 分的候选应排第一，实际 %s", got[0].ID)
	}
	if got[1].ID != "dup" {
		t.Errorf("重复标签只计 1 分，dup 应排第二，实际 %s", got[1].ID)
	}
	for _, v := range got {
		if v.ID == "ref" {
			t.Error("结果不应包含参考视频自身")
		}
	}
}

func TestFindSimilarStableTieOrder(t *testing.T) {
	ref := newVideo("ref", "Referenz", "Auto")

	// 三个同分候选，应保持候选集原有顺序（时间倒序）
	store := &fakeVideoStore{}
	store.videos = append(store.videos,
		newVideo("neu", "Neu", "Auto"),
		newVideo("mittel", "Mittel", "Auto"),
		newVideo("alt", "Alt", "Auto"),
	)

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)

	wantOrder := []string{"neu", "mittel", "alt"}
	if len(got) != len(wantOrder) {
		t.Fatalf("期望 %d 条结果，实际 %d 条", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("同分顺序位置 %d: 期望 %s，实际 %s", i, id, got[i].ID)
		}
	}
}

func TestFindSimilarTruncatesToLimit(t *testing.T) {
	ref := newVideo("ref", "Referenz", "Auto")

	store := &fakeVideoStore{}
	for i := 0; i < 10; i++ {
		store.videos = append(store.videos, newVideo(string(rune('a'+i)), "V", "Auto"))
	}

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)
	if len(got) != 6 {
		t.Fatalf("期望截断到 6 条，实际 %d 条", len(got))
	}
}

func TestFindSimilarStoreErrorDegrades(t *testing.T) {
	ref := newVideo("ref", "Referenz", "Auto")
	store := &fakeVideoStore{listErr: errors.New("db down")}

	svc := NewSimilarService(store)
	got := svc.FindSimilar(context.Background(), ref, 6)
	if len(got) != 0 {
		t.Fatalf("存储失败应降级为空列表，实际 %d 条", len(got))
	}
}
