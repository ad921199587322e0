package history

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxSize 默认历史记录上限
const DefaultMaxSize = 50

// Record 一次完成的翻译，创建后不再修改
type Record struct {
	ID             string `json:"id"`
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	Model          string `json:"model"`
	Provider       string `json:"provider"`
	Timestamp      int64  `json:"timestamp"` // 毫秒
}

// NewRecord 生成带新 id 的记录
func NewRecord(original, translated, model, provider string, now time.Time) Record {
	return Record{
		ID:             uuid.NewString(),
		OriginalText:   original,
		TranslatedText: translated,
		Model:          model,
		Provider:       provider,
		Timestamp:      now.UnixMilli(),
	}
}

// Time 记录创建时间
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Log 最新在前的历史记录
type Log []Record

// Append 插入到头部，然后从尾部淘汰超出上限的记录
func (l Log) Append(rec Record, maxSize int) Log {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	next := make(Log, 0, min(len(l)+1, maxSize))
	next = append(next, rec)
	for _, r := range l {
		if len(next) >= maxSize {
			break
		}
		next = append(next, r)
	}
	return next
}

// List 返回最新在前的副本
func (l Log) List() []Record {
	return append([]Record{}, l...)
}

// Find 按 id 查找
func (l Log) Find(id string) (Record, bool) {
	for _, r := range l {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
