package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

// ==================== htmx / JSON 片段接口 ====================

// ShortsNext 短视频流预取：再抽一条可播放视频
func (h *Handler) ShortsNext(c *gin.Context) {
	video := h.Shorts.Next(c.Request.Context())
	if video == nil {
		utils.NotFound(c, "没有可播放的视频")
		return
	}

	utils.Success(c, gin.H{
		"video":    video,
		"embedSrc": embedSrc(video),
	})
}

// SimilarVideos 相似视频片段，详情页 htmx 懒加载
func (h *Handler) SimilarVideos(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.String(http.StatusBadRequest, "")
		return
	}

	ref, err := h.Videos.FindByID(id)
	if err != nil || ref == nil {
		c.String(http.StatusNotFound, "")
		return
	}

	similar := h.Similar.FindSimilar(c.Request.Context(), ref, service.DefaultSimilarLimit)

	c.HTML(http.StatusOK, "partials/similar_videos.html", gin.H{
		"Similar": similar,
	})
}

// VideosPageFragment 视频流分页片段，"加载更多" 按钮的 htmx 目标
func (h *Handler) VideosPageFragment(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	category := c.Query("category")
	search := c.Query("search")

	page := h.Feed.Page(c.Request.Context(), pageNum, category, search)

	c.HTML(http.StatusOK, "partials/video_grid.html", gin.H{
		"Items":      h.Feed.InterleaveAds(page.Videos),
		"Page":       page.Page,
		"TotalPages": page.TotalPages,
		"Total":      page.Total,
		"Category":   category,
		"Search":     search,
	})
}
