// Package errors defines the error kinds surfaced by the publish workflow
// Package errors 定义发布流程中对外暴露的错误类型
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for user-facing reporting
// Kind 错误分类，用于面向用户的提示
type Kind int

const (
	// KindUnknown unclassified error // 未分类错误
	KindUnknown Kind = iota
	// KindConfiguration missing or invalid blog URL / token // 配置缺失或非法
	KindConfiguration
	// KindNetwork transport level failure, retryable // 网络传输失败，可重试
	KindNetwork
	// KindRemoteAPI non-2xx response that is not retryable // 不可重试的远程 API 错误
	KindRemoteAPI
	// KindFileSystem folder / file create, delete or read failure // 文件系统错误
	KindFileSystem
	// KindPartialImageUpload one or more images failed to upload // 部分图片上传失败
	KindPartialImageUpload
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindNetwork:
		return "NetworkError"
	case KindRemoteAPI:
		return "RemoteApiError"
	case KindFileSystem:
		return "FileSystemError"
	case KindPartialImageUpload:
		return "PartialImageUploadError"
	}
	return "UnknownError"
}

// AppError unified error carrying a kind, a message and the original cause
// AppError 统一错误结构体，包含分类、消息与原始错误
type AppError struct {
	// Kind error kind // 错误分类
	Kind Kind
	// Message user facing message // 面向用户的消息
	Message string
	// StatusCode HTTP status for remote errors, 0 otherwise // 远程错误的 HTTP 状态码
	StatusCode int
	// Cause original error // 原始错误
	Cause error
	// Timestamp when the error occurred // 错误发生时间
	Timestamp time.Time
}

// Error implements the error interface
// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap supports errors.Is / errors.As chains
// Unwrap 支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause, Timestamp: time.Now()}
}

// NewConfigurationError 创建配置错误
func NewConfigurationError(message string, cause error) *AppError {
	return newError(KindConfiguration, message, cause)
}

// NewNetworkError 创建网络错误
func NewNetworkError(message string, cause error) *AppError {
	return newError(KindNetwork, message, cause)
}

// NewRemoteAPIError creates a remote API error with the server's status and message
// NewRemoteAPIError 创建远程 API 错误
func NewRemoteAPIError(statusCode int, message string) *AppError {
	e := newError(KindRemoteAPI, message, nil)
	e.StatusCode = statusCode
	return e
}

// NewFileSystemError 创建文件系统错误
func NewFileSystemError(message string, cause error) *AppError {
	return newError(KindFileSystem, message, cause)
}

// NewPartialImageUploadError reports how many images could not be uploaded
// NewPartialImageUploadError 报告上传失败的图片数量
func NewPartialImageUploadError(failed, total int) *AppError {
	return newError(KindPartialImageUpload, fmt.Sprintf("%d of %d images failed to upload", failed, total), nil)
}

// KindOf returns the kind of the first AppError in the chain
// KindOf 返回错误链中第一个 AppError 的分类
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
// Is 判断错误是否属于指定分类
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode returns the HTTP status carried by err, 0 when absent
// StatusCode 返回错误携带的 HTTP 状态码
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}
