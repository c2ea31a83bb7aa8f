package model

import (
	"strings"
	"time"
)

// PlaceholderThumb 没有任何图片时的占位图
const PlaceholderThumb = "/static/img/placeholder.svg"

// Video 视频模型
// 列名沿用原始库的拼写（titel / describtion 是历史遗留，线上 API 依赖这两个键，不可更正）。
// 标签和配图是定长槽位列，不是关联表：tag_1..tag_8、image_1..image_14。
type Video struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string  `json:"titel" gorm:"column:titel;not null"`
	Description *string `json:"describtion,omitempty" gorm:"column:describtion"`
	Duration    string  `json:"duration"`
	Embed       *string `json:"embed,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`

	Tag1 *string `json:"tag_1,omitempty" gorm:"column:tag_1"`
	Tag2 *string `json:"tag_2,omitempty" gorm:"column:tag_2"`
	Tag3 *string `json:"tag_3,omitempty" gorm:"column:tag_3"`
	Tag4 *string `json:"tag_4,omitempty" gorm:"column:tag_4"`
	Tag5 *string `json:"tag_5,omitempty" gorm:"column:tag_5"`
	Tag6 *string `json:"tag_6,omitempty" gorm:"column:tag_6"`
	Tag7 *string `json:"tag_7,omitempty" gorm:"column:tag_7"`
	Tag8 *string `json:"tag_8,omitempty" gorm:"column:tag_8"`

	Image1  *string `json:"image_1,omitempty" gorm:"column:image_1"`
	Image2  *string `json:"image_2,omitempty" gorm:"column:image_2"`
	Image3  *string `json:"image_3,omitempty" gorm:"column:image_3"`
	Image4  *string `json:"image_4,omitempty" gorm:"column:image_4"`
	Image5  *string `json:"image_5,omitempty" gorm:"column:image_5"`
	Image6  *string `json:"image_6,omitempty" gorm:"column:image_6"`
	Image7  *string `json:"image_7,omitempty" gorm:"column:image_7"`
	Image8  *string `json:"image_8,omitempty" gorm:"column:image_8"`
	Image9  *string `json:"image_9,omitempty" gorm:"column:image_9"`
	Image10 *string `json:"image_10,omitempty" gorm:"column:image_10"`
	Image11 *string `json:"image_11,omitempty" gorm:"column:image_11"`
	Image12 *string `json:"image_12,omitempty" gorm:"column:image_12"`
	Image13 *string `json:"image_13,omitempty" gorm:"column:image_13"`
	Image14 *string `json:"image_14,omitempty" gorm:"column:image_14"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}

// tagSlots 按槽位顺序返回 8 个标签指针
func (v *Video) tagSlots() []*string {
	return []*string{v.Tag1, v.Tag2, v.Tag3, v.Tag4, v.Tag5, v.Tag6, v.Tag7, v.Tag8}
}

// Tags 返回去除首尾空白后的非空标签列表
// 保留槽位顺序和原始大小写，重复标签原样保留（去重是调用方的事）
func (v *Video) Tags() []string {
	slots := v.tagSlots()
	tags := make([]string, 0, len(slots))
	for _, s := range slots {
		if s == nil {
			continue
		}
		if t := strings.TrimSpace(*s); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// PrimaryTag 第一个非空标签，用于卡片角标
func (v *Video) PrimaryTag() string {
	if tags := v.Tags(); len(tags) > 0 {
		return tags[0]
	}
	return ""
}

// HasEmbed 是否携带可播放的嵌入内容
func (v *Video) HasEmbed() bool {
	return v.Embed != nil && strings.TrimSpace(*v.Embed) != ""
}

// Images 返回非空配图链接，按展示顺序
func (v *Video) Images() []string {
	slots := []*string{
		v.Image1, v.Image2, v.Image3, v.Image4, v.Image5, v.Image6, v.Image7,
		v.Image8, v.Image9, v.Image10, v.Image11, v.Image12, v.Image13, v.Image14,
	}
	images := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != nil && strings.TrimSpace(*s) != "" {
			images = append(images, strings.TrimSpace(*s))
		}
	}
	return images
}

// Thumb 缩略图兜底链：thumbnail -> image_1 -> 占位图
func (v *Video) Thumb() string {
	if v.Thumbnail != nil && strings.TrimSpace(*v.Thumbnail) != "" {
		return *v.Thumbnail
	}
	if images := v.Images(); len(images) > 0 {
		return images[0]
	}
	return PlaceholderThumb
}
