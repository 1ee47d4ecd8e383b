// Package domain encodes the entities the bridge works with: the OAuth2
// token pair, inbound payment notifications, the processing history and
// the pricing tier catalog.
package domain

import "time"

// RefreshTokenValidity is the margin applied to refresh tokens. The
// provider guarantees 30 days; one day less absorbs clock drift between
// us and the authorization server.
const RefreshTokenValidity = 29 * 24 * time.Hour

// TokenSet holds the current bearer credentials. The zero value is a
// valid "never authenticated" state: both tokens are absent and expired.
type TokenSet struct {
	AccessToken        string
	AccessTokenExpiry  *time.Time
	RefreshToken       string
	RefreshTokenExpiry *time.Time
}

// AccessTokenExpired reports whether the access token must not be used
// at the given instant. An absent expiry counts as expired.
func (t TokenSet) AccessTokenExpired(now time.Time) bool {
	return expired(t.AccessTokenExpiry, now)
}

// RefreshTokenExpired reports whether the refresh token can no longer be
// exchanged at the given instant.
func (t TokenSet) RefreshTokenExpired(now time.Time) bool {
	return expired(t.RefreshTokenExpiry, now)
}

func expired(expiry *time.Time, now time.Time) bool {
	return expiry == nil || now.After(*expiry)
}

// Exchanged returns the token set resulting from a successful grant
// exchange performed at now. expiresIn is the provider-reported access
// token TTL in seconds.
func Exchanged(accessToken, refreshToken string, expiresIn int64, now time.Time) TokenSet {
	accessExpiry := now.Add(time.Duration(expiresIn) * time.Second)
	refreshExpiry := now.Add(RefreshTokenValidity)
	return TokenSet{
		AccessToken:        accessToken,
		AccessTokenExpiry:  &accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: &refreshExpiry,
	}
}
