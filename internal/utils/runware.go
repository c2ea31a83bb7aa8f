package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RunwareTask Runware API 任务（认证任务和生图任务共用一个结构，按需填字段）
type RunwareTask struct {
	TaskType       string  `json:"taskType"`
	APIKey         string  `json:"apiKey,omitempty"`
	TaskUUID       string  `json:"taskUUID,omitempty"`
	PositivePrompt string  `json:"positivePrompt,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	Model          string  `json:"model,omitempty"`
	Steps          int     `json:"steps,omitempty"`
	CFGScale       float64 `json:"CFGScale,omitempty"`
	Scheduler      string  `json:"scheduler,omitempty"`
	NumberResults  int     `json:"numberResults,omitempty"`
	Lora           []struct {
		Model  string  `json:"model"`
		Weight float64 `json:"weight"`
	} `json:"lora,omitempty"`
}

// RunwareResponse Runware API 响应结构
type RunwareResponse struct {
	Data []struct {
		TaskType string `json:"taskType"`
		ImageURL string `json:"imageURL"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const runwareEndpoint = "https://api.runware.ai/v1"

// RunwareClient 调用 Runware 生成分类配图
type RunwareClient struct {
	apiKey string
	client *http.Client
}

// NewRunwareClient 创建客户端
func NewRunwareClient(apiKey string) *RunwareClient {
	return &RunwareClient{
		apiKey: apiKey,
		// 生图较慢，超时放宽到 60 秒
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateCategoryImage 为分类名生成一张配图，返回图片 URL
func (r *RunwareClient) GenerateCategoryImage(ctx context.Context, categoryName string) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("RUNWARE_API_KEY is not set")
	}

	prompt := categoryName + ", high quality, professional, clean background, category icon style, modern design"

	inference := RunwareTask{
		TaskType:       "imageInference",
		TaskUUID:       uuid.NewString(),
		PositivePrompt: prompt,
		Width:          1024,
		Height:         1024,
		Model:          "runware:101@1",
		Steps:          28,
		CFGScale:       3.5,
		Scheduler:      "FlowMatchEulerDiscreteScheduler",
		NumberResults:  1,
		Lora: []struct {
			Model  string  `json:"model"`
			Weight float64 `json:"weight"`
		}{
			{Model: "civitai:667086@746602", Weight: 1},
		},
	}

	// 协议要求第一个任务是 authentication
	tasks := []RunwareTask{
		{TaskType: "authentication", APIKey: r.apiKey},
		inference,
	}

	jsonData, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, runwareEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post request to runware failed: %v", err)
	}
	defer resp.Body.Close()

	var result RunwareResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response failed: %v", err)
	}

	if len(result.Errors) > 0 {
		return "", fmt.Errorf("runware api error: %s", result.Errors[0].Message)
	}

	for _, d := range result.Data {
		if d.TaskType == "imageInference" && d.ImageURL != "" {
			return d.ImageURL, nil
		}
	}

	return "", fmt.Errorf("runware returned no image")
}
