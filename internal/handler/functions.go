package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/model"
)

// ==================== 对外函数接口 ====================
// 这一组接口的状态码、字段名和错误文案是对外契约，调用方按原样解析，
// 不走 utils.Response 的统一包装

// AddVideoRequest 新增视频请求体
// titel / describtion 的拼写是线上数据库的历史遗留，外部调用方都按这个拼写传
type AddVideoRequest struct {
	Title       string  `json:"titel" binding:"required,notblank"`
	Description *string `json:"describtion"`
	Duration    string  `json:"duration" binding:"required,notblank"`
	Embed       string  `json:"embed" binding:"required,notblank"`
	Thumbnail   *string `json:"thumbnail"`
	Tag1        *string `json:"tag_1"`
	Tag2        *string `json:"tag_2"`
	Tag3        *string `json:"tag_3"`
	Tag4        *string `json:"tag_4"`
	Tag5        *string `json:"tag_5"`
	Tag6        *string `json:"tag_6"`
	Tag7        *string `json:"tag_7"`
	Tag8        *string `json:"tag_8"`
}

// AddVideo 新增视频
// Bearer Key 校验目前只看前缀，等后台有正式的 Key 管理后换成查表
func (h *Handler) AddVideo(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
		return
	}
	apiKey := strings.TrimPrefix(authHeader, "Bearer ")
	if !strings.HasPrefix(apiKey, h.Config.APIKeyPrefix) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	var req AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: titel, duration, and embed are required"})
		return
	}

	video := &model.Video{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Duration:    strings.TrimSpace(req.Duration),
		Embed:       &req.Embed,
		Thumbnail:   req.Thumbnail,
		Tag1:        req.Tag1,
		Tag2:        req.Tag2,
		Tag3:        req.Tag3,
		Tag4:        req.Tag4,
		Tag5:        req.Tag5,
		Tag6:        req.Tag6,
		Tag7:        req.Tag7,
		Tag8:        req.Tag8,
	}

	created, err := h.Videos.Insert(video)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	// 顺手为新标签补建分类行，失败不影响本次写入
	h.Categories.EnsureCategories(c.Request.Context(), created.Tags())
	h.Feed.InvalidateSnapshot()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Video created successfully",
		"video":   created,
	})
}

// GetCategoriesWithImages 返回所有已有配图的分类
func (h *Handler) GetCategoriesWithImages(c *gin.Context) {
	categories, err := h.Categories.ListWithImages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	list := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		list = append(list, gin.H{
			"name":      cat.Name,
			"image_url": cat.ImageURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": list,
	})
}

// UpdateCategoryImageRequest 更新分类配图请求体
type UpdateCategoryImageRequest struct {
	CategoryName string `json:"categoryName"`
	ImageURL     string `json:"imageUrl"`
}

// UpdateCategoryImage 更新分类配图
func (h *Handler) UpdateCategoryImage(c *gin.Context) {
	var req UpdateCategoryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryName and imageUrl are required"})
		return
	}
	if strings.TrimSpace(req.CategoryName) == "" || strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryName and imageUrl are required"})
		return
	}

	if err := h.Categories.UpdateImage(c.Request.Context(), req.CategoryName, req.ImageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MigrateTagsToCategories 把所有视频标签补进分类表
func (h *Handler) MigrateTagsToCategories(c *gin.Context) {
	summary, err := h.Categories.MigrateTags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Migration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Migration completed",
		"summary": summary,
	})
}
