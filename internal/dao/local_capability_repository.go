package dao

import (
	"context"
	"fmt"
	"os"

	"github.com/haierkeys/objective-share-service/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/gookit/goutil/fsutil"
)

// localCapabilityRepository 将本地能力记录保存在单个 JSON 文件中
// 只保证单进程单写者；调用方负责加锁
type localCapabilityRepository struct {
	path string
}

func NewLocalCapabilityRepository(path string) domain.LocalCapabilityRepository {
	return &localCapabilityRepository{path: path}
}

func (r *localCapabilityRepository) Load(ctx context.Context) (map[string]*domain.LocalCapability, error) {
	records := map[string]*domain.LocalCapability{}
	if !fsutil.FileExists(r.path) {
		return records, nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return records, nil
}

// Save 先写临时文件再 rename，避免写一半的文件
func (r *localCapabilityRepository) Save(ctx context.Context, records map[string]*domain.LocalCapability) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := fsutil.MkParentDir(r.path); err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

var _ domain.LocalCapabilityRepository = (*localCapabilityRepository)(nil)
