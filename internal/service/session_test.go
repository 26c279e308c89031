package service

import (
	"context"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/session"
)

func storeWithRole(role domainauth.Role, userID string) *session.Store {
	store := session.NewStore(session.StoreOptions{})
	if userID != "" {
		store.SetOverride(context.Background(), &domainauth.Identity{ID: userID, RoleClaim: role.String()})
	}
	return store
}
