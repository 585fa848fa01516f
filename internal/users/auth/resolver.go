// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// ActorResolver maps verified token claims to the account's current role
// and superuser flag.
//
// Lookups are cached per user ID for a short TTL. A role change therefore
// becomes visible within one TTL, without waiting for the token to expire.
type ActorResolver struct {
	users UserRepository
	cache *expirable.LRU[string, access.Actor]
}

// NewActorResolver creates a resolver. A size of zero disables caching.
func NewActorResolver(users UserRepository, size int, ttl time.Duration) *ActorResolver {
	resolver := &ActorResolver{users: users}
	if size > 0 {
		resolver.cache = expirable.NewLRU[string, access.Actor](size, nil, ttl)
	}
	return resolver
}

// ResolveActor implements middleware.ActorResolver.
func (resolver *ActorResolver) ResolveActor(ctx context.Context, claims *sec.AuthClaims) (access.Actor, error) {
	if resolver.cache != nil {
		if actor, ok := resolver.cache.Get(claims.UserID); ok {
			metrics.ActorCacheTotal.WithLabelValues(metrics.ResultHit).Inc()
			return actor, nil
		}
		metrics.ActorCacheTotal.WithLabelValues(metrics.ResultMiss).Inc()
	}

	user, err := resolver.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return access.Anonymous(), apperr.Unauthorized("User account no longer exists")
		}
		return access.Anonymous(), err
	}

	actor := user.Actor()
	if resolver.cache != nil {
		resolver.cache.Add(claims.UserID, actor)
	}
	return actor, nil
}

// Forget drops a cached actor after a role change or deletion.
func (resolver *ActorResolver) Forget(userID string) {
	if resolver.cache != nil {
		resolver.cache.Remove(userID)
	}
}
