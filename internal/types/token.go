package types

// TokenClaims carries the identity the external auth provider encodes in a
// bearer token. Only the stable user id is consumed by the catalog.
type TokenClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}
