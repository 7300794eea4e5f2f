package auth

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// DefaultCacheSize is used when NewService is given a non-positive cache size.
const DefaultCacheSize = 256

// Service is the permission ledger. It answers authorization queries against the
// permissions table and caches every decision, since grants never change at runtime.
type Service struct {
	db    *gorm.DB
	cache *lru.Cache[Grant, bool]
}

// NewService creates a new permission ledger backed by db.
func NewService(db *gorm.DB, cacheSize int) (*Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[Grant, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission cache: %w", err)
	}

	return &Service{db: db, cache: cache}, nil
}

// IsAuthorized reports whether g is allowed, either by an exact grant or by a
// wildcard grant for the same role, resource and action.
// The lookup runs on db when given (e.g. an open transaction), else on the root handle.
// Malformed input is denied without an error. A storage failure denies and returns
// the error; failed lookups are not cached.
func (s *Service) IsAuthorized(db *gorm.DB, g Grant) (bool, error) {
	if !IsKnownRole(g.Role) || !isKnownResource(g.Resource) || !isKnownAction(g.Action) || g.Column == "" {
		log.Debug().Str("grant", g.String()).Msg("malformed grant query denied")
		return false, nil
	}

	if allowed, ok := s.cache.Get(g); ok {
		return allowed, nil
	}

	if db == nil {
		db = s.db
	}

	var count int64

	err := db.Model(&models.PermissionGrant{}).
		Where("role_id = ? AND table_name = ? AND action = ?", g.Role, g.Resource, g.Action).
		Where("column_field IN ?", []string{g.Column, ColumnAll}).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "failed to check grant %s", g)
	}

	allowed := count > 0
	s.cache.Add(g, allowed)

	return allowed, nil
}
