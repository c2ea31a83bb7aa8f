package handler

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/config"
	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos       *repository.Repositories
	Config      *config.Config
	Videos      service.VideoStore
	Categories  *service.CategoryService
	Similar     *service.SimilarService
	Feed        *service.FeedService
	Shorts      *service.ShortsService
	Illustrator *service.IllustratorService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 每个服务持有独立的随机源，避免互相抢锁
	newRnd := func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	categories := service.NewCategoryService(repos.Video, repos.Category, newRnd())
	generator := utils.NewRunwareClient(cfg.RunwareAPIKey)

	return &Handler{
		Repos:       repos,
		Config:      cfg,
		Videos:      repos.Video,
		Categories:  categories,
		Similar:     service.NewSimilarService(repos.Video),
		Feed:        service.NewFeedService(repos.Video, cfg.PageSize, newRnd()),
		Shorts:      service.NewShortsService(repos.Video, newRnd()),
		Illustrator: service.NewIllustratorService(categories, repos.Category, generator, service.DefaultIllustratorStagger),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
		"Referer":  c.Request.Referer(),
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch {
	case path == "/":
		return "home"
	case path == "/videos" || strings.HasPrefix(path, "/videos/"):
		return "videos"
	case path == "/kategorien" || strings.HasPrefix(path, "/kategorie/"):
		return "categories"
	case path == "/shorts":
		return "shorts"
	case strings.HasPrefix(path, "/admin"):
		return "admin"
	default:
		return ""
	}
}

// ==================== 公开页面 ====================

// Home 首页：随机 8 个分类 + 今日热门随机栏目 + 最新视频预览
func (h *Handler) Home(c *gin.Context) {
	categories := h.Categories.HomeSample(c.Request.Context(), service.HomeSampleSize)
	popular := h.Feed.PopularToday(c.Request.Context(), service.PopularTodaySize)

	page := h.Feed.Page(c.Request.Context(), 1, "", "")
	preview := page.Videos
	if len(preview) > 12 {
		preview = preview[:12]
	}

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":      h.Config.SiteName + " - Videos",
		"Categories": categories,
		"Popular":    popular,
		"Videos":     preview,
	}))
}

// VideosPage 视频流页面，支持 ?page 和 ?search
func (h *Handler) VideosPage(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := c.Query("search")

	page := h.Feed.Page(c.Request.Context(), pageNum, "", search)

	title := "Alle Videos - " + h.Config.SiteName
	if search != "" {
		title = search + " - Suche - " + h.Config.SiteName
	}

	c.HTML(http.StatusOK, "videos.html", h.RenderData(c, gin.H{
		"Title":      title,
		"Items":      h.Feed.InterleaveAds(page.Videos),
		"Page":       page.Page,
		"TotalPages": page.TotalPages,
		"Total":      page.Total,
		"Search":     search,
	}))
}

// VideoDetail 视频详情页，按 slug 定位
func (h *Handler) VideoDetail(c *gin.Context) {
	slug := c.Param("slug")

	video, err := h.Feed.ResolveSlug(c.Request.Context(), slug)
	if err != nil || video == nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "Video nicht gefunden - " + h.Config.SiteName,
		}))
		return
	}

	similar := h.Similar.FindSimilar(c.Request.Context(), video, service.DefaultSimilarLimit)

	c.HTML(http.StatusOK, "video_detail.html", h.RenderData(c, gin.H{
		"Title":    video.Title + " - " + h.Config.SiteName,
		"Video":    video,
		"EmbedSrc": embedSrc(video),
		"Similar":  similar,
	}))
}

// AllCategories 全部分类页
func (h *Handler) AllCategories(c *gin.Context) {
	categories := h.Categories.DeriveAll(c.Request.Context())

	c.HTML(http.StatusOK, "categories.html", h.RenderData(c, gin.H{
		"Title":      "Kategorien - " + h.Config.SiteName,
		"Categories": categories,
	}))
}

// CategoryPage 单个分类的视频流
func (h *Handler) CategoryPage(c *gin.Context) {
	slug := c.Param("slug")
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	// slug 先和推导出的分类名对一遍，对不上就按 slug 还原出展示名兜底
	name := utils.DecodeSlug(slug)
	for _, cat := range h.Categories.DeriveAll(c.Request.Context()) {
		if utils.Slugify(cat.Name) == slug {
			name = cat.Name
			break
		}
	}

	page := h.Feed.Page(c.Request.Context(), pageNum, name, "")

	c.HTML(http.StatusOK, "category.html", h.RenderData(c, gin.H{
		"Title":      name + " - " + h.Config.SiteName,
		"Category":   name,
		"Items":      h.Feed.InterleaveAds(page.Videos),
		"Page":       page.Page,
		"TotalPages": page.TotalPages,
		"Total":      page.Total,
	}))
}

// ShortsItem 短视频流渲染项
type ShortsItem struct {
	Video *model.Video
	Src   string
}

// ShortsPage 短视频页，初始 3 条，后续由前端按水位拉 /api/shorts/next
func (h *Handler) ShortsPage(c *gin.Context) {
	batch := h.Shorts.InitialBatch(c.Request.Context())

	items := make([]ShortsItem, 0, len(batch))
	for _, v := range batch {
		items = append(items, ShortsItem{Video: v, Src: embedSrc(v)})
	}

	c.HTML(http.StatusOK, "shorts.html", h.RenderData(c, gin.H{
		"Title":     "Shorts - " + h.Config.SiteName,
		"Items":     items,
		"Lookahead": service.ShortsLookahead,
	}))
}

// RandomVideo 随机跳转到一条视频
func (h *Handler) RandomVideo(c *gin.Context) {
	video := h.Feed.Random(c.Request.Context())
	if video == nil {
		c.Redirect(http.StatusFound, "/videos")
		return
	}
	c.Redirect(http.StatusFound, "/videos/"+utils.Slugify(video.Title))
}

// embedSrc 提取视频的 iframe 播放地址
func embedSrc(v *model.Video) string {
	if v == nil || v.Embed == nil {
		return ""
	}
	return utils.ExtractIframeSrc(*v.Embed)
}

// ==================== 认证页面 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "Login - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	if redirect == "" {
		redirect = "/"
	}

	// 查找用户
	user, err := h.Repos.User.FindByEmail(email)
	if err != nil || user == nil {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title": "Login - " + h.Config.SiteName,
			"Error": "邮箱或密码错误",
		}))
		return
	}

	// 验证密码
	if !h.Repos.User.CheckPassword(user, password) {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title": "Login - " + h.Config.SiteName,
			"Error": "邮箱或密码错误",
		}))
		return
	}

	if err := h.establishSession(c, user); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", h.RenderData(c, gin.H{
			"Title": "Login - " + h.Config.SiteName,
			"Error": "登录失败，请重试",
		}))
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "Registrieren - " + h.Config.SiteName,
	}))
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	// 验证
	if password != confirmPassword {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "Registrieren - " + h.Config.SiteName,
			"Error": "两次输入的密码不一致",
		}))
		return
	}

	if len(password) < 6 {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "Registrieren - " + h.Config.SiteName,
			"Error": "密码至少需要 6 个字符",
		}))
		return
	}

	// 检查邮箱是否已存在
	existing, _ := h.Repos.User.FindByEmail(email)
	if existing != nil {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "Registrieren - " + h.Config.SiteName,
			"Error": "该邮箱已被注册",
		}))
		return
	}

	// 创建用户
	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := email
	if parts := strings.Split(email, "@"); len(parts) > 0 {
		username = parts[0]
	}

	user, err := h.Repos.User.Create(email, username, password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "register.html", h.RenderData(c, gin.H{
			"Title": "Registrieren - " + h.Config.SiteName,
			"Error": "注册失败，请重试",
		}))
		return
	}

	if err := h.establishSession(c, user); err != nil {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// establishSession 签发 JWT Cookie 并把用户信息写进 Session
func (h *Handler) establishSession(c *gin.Context, user *model.User) error {
	roles, err := h.Repos.User.GetRoles(user.ID)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, roles, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}

	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Roles:    roles,
	})
	return session.Save()
}
