package service

import (
	"context"
	"strings"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"
)

// defaultBannerOffset 头图默认居中
const defaultBannerOffset = 0.5

var bannerKeys = []string{"banner", "banner_x", "banner_y", "banner_lock"}

// Banner 笔记头图
type Banner struct {
	URL  string
	X    float64
	Y    float64
	Lock bool
}

// BannerService 头图业务服务接口
type BannerService interface {
	// Set adds or changes the banner. Zero offsets fall back to 0.5.
	// Set 添加或更改头图，偏移为 0 时使用 0.5
	Set(ctx context.Context, notePath string, banner Banner) error
	// Remove 移除头图相关的全部字段
	Remove(ctx context.Context, notePath string) error
}

type bannerService struct {
	vault domain.Vault
}

// NewBannerService 创建头图服务
func NewBannerService(vault domain.Vault) BannerService {
	return &bannerService{vault: vault}
}

func (s *bannerService) Set(ctx context.Context, notePath string, banner Banner) error {
	url := strings.TrimSpace(banner.URL)
	if url == "" {
		return pkgerrors.NewConfigurationError("banner url is empty", nil)
	}
	if banner.X == 0 {
		banner.X = defaultBannerOffset
	}
	if banner.Y == 0 {
		banner.Y = defaultBannerOffset
	}
	return s.vault.ProcessFrontMatter(ctx, notePath, func(fm *util.Frontmatter) error {
		fm.Set("banner", url)
		fm.Set("banner_x", banner.X)
		fm.Set("banner_y", banner.Y)
		fm.Set("banner_lock", banner.Lock)
		return nil
	})
}

func (s *bannerService) Remove(ctx context.Context, notePath string) error {
	return s.vault.ProcessFrontMatter(ctx, notePath, func(fm *util.Frontmatter) error {
		for _, k := range bannerKeys {
			fm.Delete(k)
		}
		return nil
	})
}
