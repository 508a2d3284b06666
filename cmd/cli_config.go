package cmd

import (
	internalApp "github.com/haierkeys/objective-share-service/internal/app"

	"github.com/creasty/defaults"
	"github.com/gookit/goutil/fsutil"
	"github.com/pkg/errors"
)

// loadCLIConfig 读取工具命令使用的配置
// 未指定且默认位置都不存在时使用内置默认值，不自动创建文件
func loadCLIConfig(path string) (*internalApp.AppConfig, error) {
	if path == "" {
		for _, p := range defaultConfigPaths {
			if fsutil.FileExists(p) {
				path = p
				break
			}
		}
	}
	if path == "" {
		cfg := new(internalApp.AppConfig)
		if err := defaults.Set(cfg); err != nil {
			return nil, errors.Wrap(err, "set default config failed")
		}
		return cfg, nil
	}

	cfg, _, err := internalApp.LoadConfig(path)
	return cfg, err
}
