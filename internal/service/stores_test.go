package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/user/vidtube/internal/model"
)

// fakeVideoStore 内存视频仓库
type fakeVideoStore struct {
	mu      sync.Mutex
	videos  []*model.Video
	listErr error
}

func (f *fakeVideoStore) ListRecent() ([]*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Video, len(f.videos))
	copy(out, f.videos)
	return out, nil
}

func (f *fakeVideoStore) ListEmbeddable() ([]*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Video
	for _, v := range f.videos {
		if v.HasEmbed() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVideoStore) FindByID(id string) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVideoStore) Insert(video *model.Video) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if video.ID == "" {
		video.ID = fmt.Sprintf("video-%d", len(f.videos)+1)
	}
	f.videos = append([]*model.Video{video}, f.videos...)
	return video, nil
}

// fakeCategoryStore 内存分类仓库
type fakeCategoryStore struct {
	mu         sync.Mutex
	categories []*model.Category
	listErr    error
	insertErr  error
}

func (f *fakeCategoryStore) ListAll() ([]*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeCategoryStore) FindByName(name string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) Insert(category *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if category.ID == "" {
		category.ID = fmt.Sprintf("cat-%d", len(f.categories)+1)
	}
	f.categories = append(f.categories, category)
	return nil
}

func (f *fakeCategoryStore) UpsertImage(name, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			url := imageURL
			c.ImageURL = &url
			return nil
		}
	}
	url := imageURL
	f.categories = append(f.categories, &model.Category{
		ID:       fmt.Sprintf("cat-%d", len(f.categories)+1),
		Name:     name,
		ImageURL: &url,
	})
	return nil
}

// fakeGenerator 可编程的生图桩
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeGenerator) GenerateCategoryImage(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.fail[name] {
		return "", fmt.Errorf("generation failed for %s", name)
	}
	return "https://img.example.com/" + strings.ToLower(name) + ".png", nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// newVideo 按槽位顺序填标签的测试视频
func newVideo(id, title string, tags ...string) *model.Video {
	v := &model.Video{ID: id, Title: title, Duration: "10:00"}
	slots := []**string{&v.Tag1, &v.Tag2, &v.Tag3, &v.Tag4, &v.Tag5, &v.Tag6, &v.Tag7, &v.Tag8}
	for i, t := range tags {
		if i >= len(slots) {
			break
		}
		tag := t
		*slots[i] = &tag
	}
	return v
}

func withEmbed(v *model.Video, embed string) *model.Video {
	v.Embed = &embed
	return v
}

func strPtr(s string) *string {
	return &s
}
