package halo

// Visibility values accepted by Halo
// Visibility Halo 文章可见性
const (
	VisiblePublic   = "PUBLIC"
	VisibleInternal = "INTERNAL"
	VisiblePrivate  = "PRIVATE"
)

const (
	// APIVersion Post 资源版本
	APIVersion = "content.halo.run/v1alpha1"
	// KindPost Post 资源类型
	KindPost = "Post"
	// RawTypeMarkdown 原始内容类型
	RawTypeMarkdown = "markdown"
	// PreferredEditorAnnotation 指定编辑器的注解
	PreferredEditorAnnotation = "content.halo.run/preferred-editor"
)

// Post Halo post resource
// Post Halo 文章资源
type Post struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Metadata   Metadata `json:"metadata"`
	Spec       PostSpec `json:"spec"`
}

// Metadata resource metadata, Name is assigned server side from GenerateName
// Metadata 资源元数据，Name 由服务端根据 GenerateName 生成
type Metadata struct {
	Name         string            `json:"name,omitempty"`
	GenerateName string            `json:"generateName,omitempty"`
	Annotations  map[string]string `json:"annotations,omitempty"`
	Version      *int64            `json:"version,omitempty"`
}

// PostSpec 文章属性
type PostSpec struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Template     string   `json:"template"`
	Cover        string   `json:"cover"`
	Deleted      bool     `json:"deleted"`
	Publish      bool     `json:"publish"`
	PublishTime  string   `json:"publishTime,omitempty"`
	Pinned       bool     `json:"pinned"`
	AllowComment bool     `json:"allowComment"`
	Visible      string   `json:"visible"`
	Priority     int      `json:"priority"`
	Excerpt      Excerpt  `json:"excerpt"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
}

// Excerpt 摘要
type Excerpt struct {
	AutoGenerate bool   `json:"autoGenerate"`
	Raw          string `json:"raw"`
}

// Content post content in raw markdown and rendered HTML
// Content 文章内容（原始 markdown 与渲染后的 HTML）
type Content struct {
	Raw     string `json:"raw"`
	Content string `json:"content"`
	RawType string `json:"rawType"`
}

// PostRequest body of the draft-with-content call
// PostRequest 创建草稿（带内容）请求体
type PostRequest struct {
	Post    Post    `json:"post"`
	Content Content `json:"content"`
}

// PostList 文章列表
type PostList struct {
	Page  int    `json:"page"`
	Size  int    `json:"size"`
	Total int64  `json:"total"`
	Items []Post `json:"items"`
}

// problemDetail error body returned by Halo
type problemDetail struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}
