package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/handler"
	"github.com/user/vidtube/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	pages := r.Group("")
	pages.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		pages.GET("/", h.Home)
		pages.GET("/videos", h.VideosPage)
		pages.GET("/videos/:slug", h.VideoDetail)
		pages.GET("/kategorien", h.AllCategories)
		pages.GET("/kategorie/:slug", h.CategoryPage)
		pages.GET("/shorts", h.ShortsPage)
		pages.GET("/random", h.RandomVideo)
	}

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 对外函数接口 + htmx API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		// 对外函数接口，响应格式是和外部调用方的既有契约
		api.POST("/add-video", h.AddVideo)
		api.GET("/get-categories-with-images", h.GetCategoriesWithImages)
		api.POST("/update-category-image", h.UpdateCategoryImage)
		api.POST("/migrate-tags-to-categories", h.MigrateTagsToCategories)

		// 页面内的 htmx / JSON 片段
		api.GET("/shorts/next", h.ShortsNext)
		api.GET("/similar", h.SimilarVideos)
		api.GET("/videos/page", h.VideosPageFragment)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.GET("", h.AdminDashboard)
		admin.POST("/migrate-tags", h.AdminMigrateTags)
		admin.POST("/backfill-images", h.AdminBackfillImages)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"js": func(s string) template.JS {
			return template.JS(s)
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "videos", "video_detail",
		"categories", "category", "shorts", "404",
		"login", "register",
		"admin_dashboard",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
