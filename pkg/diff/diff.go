// Package diff measures how far two note bodies are apart
// Package diff 计算两份笔记正文的差异
package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Stat 差异统计
type Stat struct {
	// Inserted 新增字符数
	Inserted int
	// Deleted 删除字符数
	Deleted int
	// Distance Levenshtein 距离
	Distance int
}

// Equal 两份内容完全一致
func (s Stat) Equal() bool {
	return s.Distance == 0
}

// Compare computes a character level diff from old to new
// Compare 计算 old 到 new 的字符级差异
func Compare(old, new string) Stat {
	if old == new {
		return Stat{}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(old, new, false))

	var st Stat
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			st.Inserted += n
		case diffmatchpatch.DiffDelete:
			st.Deleted += n
		}
	}
	st.Distance = dmp.DiffLevenshtein(diffs)
	return st
}
