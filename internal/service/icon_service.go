package service

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"course_outline_backend/internal/config"
	"course_outline_backend/internal/model"
	"course_outline_backend/internal/util"
	"course_outline_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// IconService resolves per-activity-type custom icons. When an override asset
// exists for a modType (object mod/<modType>/icon.svg in the configured store)
// the presenter receives it as an IconOverride; otherwise the presenter falls
// back to its theme default.
type IconService struct {
	cfg    *config.IconConfig
	client *minio.Client

	mu     sync.RWMutex
	exists map[string]bool // modType -> override asset present
}

func NewIconService(cfg *config.IconConfig) (*IconService, error) {
	s := &IconService{cfg: cfg, exists: make(map[string]bool)}
	if cfg.Type == util.IconStoreMinio {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	return s, nil
}

// OverrideFor returns the icon override for a modType, or nil when the type
// has no custom asset. Existence checks are cached for the process lifetime;
// icon assets only change on deploy.
func (s *IconService) OverrideFor(ctx context.Context, modType string) *model.IconOverride {
	object := path.Join("mod", modType, "icon.svg")

	s.mu.RLock()
	present, known := s.exists[modType]
	s.mu.RUnlock()

	if !known {
		present = s.assetExists(ctx, object)
		s.mu.Lock()
		s.exists[modType] = present
		s.mu.Unlock()
	}
	if !present {
		return nil
	}

	iconURL := s.assetURL(ctx, object)
	if iconURL == "" {
		return nil
	}
	return &model.IconOverride{ModType: modType, URL: iconURL}
}

func (s *IconService) assetExists(ctx context.Context, object string) bool {
	switch s.cfg.Type {
	case util.IconStoreMinio:
		_, err := s.client.StatObject(ctx, s.cfg.MinioBucket, object, minio.StatObjectOptions{})
		return err == nil
	case util.IconStoreLocal:
		_, err := os.Stat(filepath.Join(s.cfg.LocalPath, object))
		return err == nil
	default:
		return false
	}
}

func (s *IconService) assetURL(ctx context.Context, object string) string {
	switch s.cfg.Type {
	case util.IconStoreMinio:
		expiry := time.Duration(s.cfg.URLExpireHours) * time.Hour
		if expiry <= 0 {
			expiry = 24 * time.Hour
		}
		u, err := s.client.PresignedGetObject(ctx, s.cfg.MinioBucket, object, expiry, url.Values{})
		if err != nil {
			logger.Log.Warn("failed to presign icon URL", zap.String("object", object), zap.Error(err))
			return ""
		}
		return u.String()
	case util.IconStoreLocal:
		return "/assets/" + object
	default:
		return ""
	}
}
