package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// IsDir determines if the given path is a directory
// IsDir 判断所给路径是否为文件夹
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// GetFileExt gets file extension
// GetFileExt 获取文件后缀
func GetFileExt(name string) string {
	return path.Ext(name)
}

// GetBaseName returns the file name without directory and extension
// GetBaseName 获取不含目录与后缀的文件名
func GetBaseName(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的父目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}

// PathPrefixCheckAdd checks path prefix, adds it if not exists
// PathPrefixCheckAdd 检查路径前缀，如果没有则添加
func PathPrefixCheckAdd(path string, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		path = prefix + path
	}
	return path
}

// IsAbsPath determines if it is an absolute path
// IsAbsPath 判断是否为绝对路径
func IsAbsPath(path string) bool {
	if runtime.GOOS == "windows" && filepath.VolumeName(path) != "" {
		return true
	}
	return filepath.IsAbs(path)
}

// NormalizeFolder converts backslashes, collapses repeated slashes and trims
// leading and trailing slashes
// NormalizeFolder 统一斜杠、合并重复斜杠并去掉首尾斜杠
func NormalizeFolder(folder string) string {
	folder = strings.ReplaceAll(folder, "\\", "/")
	for strings.Contains(folder, "//") {
		folder = strings.ReplaceAll(folder, "//", "/")
	}
	return strings.Trim(folder, "/")
}

// JoinURL joins a public domain and an object key, adding https:// when the
// domain has no scheme and encoding spaces as %20
// JoinURL 拼接公开域名与对象键，缺少协议时补 https://，空格编码为 %20
func JoinURL(domain, key string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if domain != "" && !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	key = strings.ReplaceAll(strings.TrimLeft(key, "/"), " ", "%20")
	return domain + "/" + key
}

// ObjectKey joins the remote folder and file name without duplicate slashes
// ObjectKey 拼接远端目录与文件名
func ObjectKey(customPath, name string) string {
	customPath = NormalizeFolder(customPath)
	name = strings.TrimLeft(name, "/")
	if customPath == "" {
		return name
	}
	return customPath + "/" + name
}
