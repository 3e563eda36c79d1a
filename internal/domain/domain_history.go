// Package domain 定义领域模型和接口
package domain

// MaxPublishHistory 发布历史保留条数
const MaxPublishHistory = 50

// PublishHistoryRecord 发布历史记录
type PublishHistoryRecord struct {
	FileName    string `json:"fileName"`
	PostName    string `json:"postName"`
	PublishTime string `json:"publishTime"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	IsUpdate    bool   `json:"isUpdate,omitempty"`
}
