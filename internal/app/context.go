package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// Scope is what the admin is currently working inside.
type Scope struct {
	BrandID    string `json:"brandId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	ProductID  string `json:"productId,omitempty"`
}

// ContextService keeps one Scope per admin session.
type ContextService struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewContextService(c domain.Cache, ttl time.Duration) *ContextService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &ContextService{cache: c, ttl: ttl}
}

func scopeKey(session string) string { return "scope:" + session }

func (s *ContextService) Get(ctx context.Context, session string) (Scope, error) {
	var sc Scope
	if _, err := s.cache.Get(ctx, scopeKey(session), &sc); err != nil {
		return Scope{}, fmt.Errorf("load scope: %w", err)
	}
	return sc, nil
}

// Set stores next. Switching brand drops the category and product picked
// under the previous one, unless next names them.
func (s *ContextService) Set(ctx context.Context, session string, next Scope) (Scope, error) {
	cur, err := s.Get(ctx, session)
	if err != nil {
		return Scope{}, err
	}
	next.BrandID = strings.TrimSpace(next.BrandID)
	next.CategoryID = strings.TrimSpace(next.CategoryID)
	next.ProductID = strings.TrimSpace(next.ProductID)

	if next.BrandID == "" {
		next.BrandID = cur.BrandID
	}
	if next.BrandID == cur.BrandID {
		if next.CategoryID == "" {
			next.CategoryID = cur.CategoryID
		}
		if next.CategoryID == cur.CategoryID && next.ProductID == "" {
			next.ProductID = cur.ProductID
		}
	}
	if err := s.cache.Set(ctx, scopeKey(session), next, int(s.ttl.Seconds())); err != nil {
		return Scope{}, fmt.Errorf("save scope: %w", err)
	}
	return next, nil
}

func (s *ContextService) Clear(ctx context.Context, session string) error {
	return s.cache.Del(ctx, scopeKey(session))
}

// AuthService proxies the account endpoints of the signed-in admin.
type AuthService struct {
	backend domain.Backend
	scopes  *ContextService
}

func NewAuthService(b domain.Backend, scopes *ContextService) *AuthService {
	return &AuthService{backend: b, scopes: scopes}
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	body, err := domain.JSONBody(map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	})
	if err != nil {
		return err
	}
	if err := s.backend.Do(ctx, http.MethodPatch, "/auth/change-password", nil, body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Logout ends the backend session and forgets the admin's scope.
func (s *AuthService) Logout(ctx context.Context, session string) error {
	err := s.backend.Do(ctx, http.MethodDelete, "/auth/logout", nil, nil, nil)
	if cerr := s.scopes.Clear(ctx, session); cerr != nil {
		log.Warn().Err(cerr).Msg("clear scope failed")
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
