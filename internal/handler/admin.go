package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/utils"
)

// ==================== 管理后台 ====================

// AdminDashboard 后台首页
func (h *Handler) AdminDashboard(c *gin.Context) {
	// 获取统计数据
	videoCount, _ := h.Repos.Video.Count()
	categoryCount, _ := h.Repos.Category.Count()
	userCount, _ := h.Repos.User.Count()

	withImages, _ := h.Categories.ListWithImages(c.Request.Context())

	c.HTML(http.StatusOK, "admin_dashboard.html", h.RenderData(c, gin.H{
		"Title":          "管理后台 - " + h.Config.SiteName,
		"UserID":         middleware.GetUserID(c),
		"VideoCount":     videoCount,
		"CategoryCount":  categoryCount,
		"UserCount":      userCount,
		"IllustratedCnt": len(withImages),
	}))
}

// AdminMigrateTags 后台触发标签迁移
func (h *Handler) AdminMigrateTags(c *gin.Context) {
	summary, err := h.Categories.MigrateTags(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "迁移失败: "+err.Error())
		return
	}
	utils.Success(c, summary)
}

// AdminBackfillImages 后台触发分类配图补全
// 补图很慢，丢到后台跑，立即返回
func (h *Handler) AdminBackfillImages(c *gin.Context) {
	go h.Illustrator.Backfill(context.Background())
	utils.SuccessWithMessage(c, "补图任务已启动", nil)
}
