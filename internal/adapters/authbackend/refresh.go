package authbackend

import (
	"context"
	"errors"
	"net/http"
	"time"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"golang.org/x/oauth2"
)

// invalidTokenError reports a token that can never become valid again, as opposed to
// a backend that could not be reached.
type invalidTokenError struct {
	op  string
	err error
}

func (e *invalidTokenError) Error() string { return e.op + ": " + e.err.Error() }
func (e *invalidTokenError) Unwrap() error { return e.err }

var errNoRefreshToken = errors.New("no refresh token")

// Restore re-establishes the persisted session and emits EventInitialSession with the
// resulting identity, or nil when there is none. Persisted tokens are deleted only when
// the backend rejects them or they fail verification; when the backend is unreachable
// they are kept for the next start.
func (c *Client) Restore(ctx context.Context) error {
	epoch := c.sessionEpoch()
	stored, err := c.tokens.Load(ctx, c.tokenKey)
	if err != nil {
		c.logger.InfoContext(ctx, "no persisted session", "reason", err)
		c.announce(ctx, domainauth.EventInitialSession, nil)
		return nil
	}

	tok := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
		Expiry:       stored.Expiry,
	}

	var id *domainauth.Identity
	if c.needsRefresh(tok) {
		tok, id, err = c.refreshToken(ctx, tok.RefreshToken)
	} else {
		id, err = c.verify(ctx, tok)
	}
	if err != nil {
		c.restoreFailed(ctx, epoch, err)
		return nil
	}
	if !c.commit(ctx, &epoch, domainauth.EventInitialSession, tok, id) {
		c.logger.InfoContext(ctx, "restored session superseded by a newer sign-in or sign-out")
	}
	return nil
}

func (c *Client) restoreFailed(ctx context.Context, epoch uint64, err error) {
	if endsSession(err) {
		c.logger.WarnContext(ctx, "persisted session rejected", "error", err)
		c.commit(ctx, &epoch, domainauth.EventInitialSession, nil, nil)
		return
	}
	c.logger.WarnContext(ctx, "persisted session not restored, keeping it for next start", "error", err)
	c.announce(ctx, domainauth.EventInitialSession, nil)
}

// Run refreshes the access token ahead of expiry until ctx is canceled.
func (c *Client) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.RefreshIfDue(ctx)
		}
	}
}

// RefreshIfDue refreshes the current token when it is within the refresh leeway.
// A refresh token the backend rejects ends the session with EventSignedOut. The result
// is dropped when a sign-in or sign-out was committed while the refresh was in flight.
func (c *Client) RefreshIfDue(ctx context.Context) {
	c.mu.Lock()
	tok, epoch := c.tok, c.epoch
	c.mu.Unlock()
	if tok == nil || !c.needsRefresh(tok) {
		return
	}

	next, id, err := c.refreshToken(ctx, tok.RefreshToken)
	if err != nil {
		if !endsSession(err) {
			c.logger.WarnContext(ctx, "token refresh failed", "error", err)
			return
		}
		if c.commit(ctx, &epoch, domainauth.EventSignedOut, nil, nil) {
			c.logger.WarnContext(ctx, "refresh token rejected, signed out", "error", err)
		}
		return
	}
	if !c.commit(ctx, &epoch, domainauth.EventTokenRefreshed, next, id) {
		c.logger.InfoContext(ctx, "discarded refreshed token, session changed during refresh")
	}
}

func (c *Client) needsRefresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return true
	}
	if tok.Expiry.IsZero() {
		return false
	}
	return tok.Expiry.Sub(c.now()) < c.leeway
}

// refreshToken exchanges refresh for a verified token. It does not touch the session.
func (c *Client) refreshToken(ctx context.Context, refresh string) (*oauth2.Token, *domainauth.Identity, error) {
	if refresh == "" {
		return nil, nil, &invalidTokenError{op: "refresh session", err: errNoRefreshToken}
	}
	// A token without an access token is always invalid, which forces the source to refresh.
	src := c.oauth.TokenSource(c.clientContext(ctx), &oauth2.Token{RefreshToken: refresh})
	tok, err := src.Token()
	if err != nil {
		return nil, nil, asBackendError(err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refresh
	}
	id, err := c.verify(ctx, tok)
	if err != nil {
		return nil, nil, err
	}
	return tok, id, nil
}

// endsSession reports whether err means the persisted session is unusable for good.
func endsSession(err error) bool {
	var invalid *invalidTokenError
	return isRejected(err) || errors.As(err, &invalid)
}

func isRejected(err error) bool {
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	return be.Status == http.StatusBadRequest || be.Status == http.StatusUnauthorized
}
