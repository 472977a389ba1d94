package editor

import "context"

// Store 是持久化的键值存储，用于保存命名的简历档案。
// Get 在键不存在时返回 errcode.ErrProfileNotFound，空间不足时 Put 返回 errcode.ErrStorageQuota。
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
	Keys(ctx context.Context) ([]string, error)
}

// Clipboard 接收纯文本导出。
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// DictationSource 返回一段已识别完成的语音文本。
type DictationSource interface {
	Next(ctx context.Context) (string, error)
}
