package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldPath 笔记或文件路径字段
	FieldPath = "path"

	// FieldVault 仓库路径字段
	FieldVault = "vault"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldURL 请求地址字段
	FieldURL = "url"

	// FieldStatus HTTP 状态码字段
	FieldStatus = "status"

	// FieldAttempt 重试次数字段
	FieldAttempt = "attempt"

	// FieldDelay 重试等待时间字段
	FieldDelay = "delay"

	// FieldPostName Halo 文章标识字段
	FieldPostName = "postName"

	// FieldPhase 发布阶段字段
	FieldPhase = "phase"

	// FieldSize 文件大小字段
	FieldSize = "size"

	// FieldBucket 存储桶名称字段
	FieldBucket = "bucket"

	// FieldFileKey 文件键字段
	FieldFileKey = "fileKey"
)
