package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"unicode/utf16"
)

// EncodeMD5 对字符串进行MD5编码
// str: 待编码的字符串
// 返回值: MD5编码后的32位十六进制字符串
func EncodeMD5(str string) string {
	return EncodeMD5Bytes([]byte(str))
}

// EncodeMD5Bytes 对字节内容进行MD5编码
func EncodeMD5Bytes(b []byte) string {
	h := md5.Sum(b)
	return hex.EncodeToString(h[:])
}

// EncodeHash32 computes the 32-bit string hash used by the Obsidian plugin
// ((h << 5) - h + c over UTF-16 code units), so hashes stay comparable with it.
// EncodeHash32 计算与插件一致的 32 位字符串哈希（按 UTF-16 码元迭代）
func EncodeHash32(content string) string {
	var hash int32 = 0
	for _, unit := range utf16.Encode([]rune(content)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	return strconv.Itoa(int(hash))
}
