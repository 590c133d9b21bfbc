package i

import "time"

// Tokenizer issues and verifies the bearer tokens that bind a client to one navigation
// session. The session id travels as a claim.
type Tokenizer interface {
	// Generate signs claims, such as the session id, into a token valid for ttl.
	Generate(claims map[string]interface{}, ttl time.Duration) (string, error)

	// Decode checks the token's signature, expiry and issuer and returns its claims.
	Decode(token string) (map[string]interface{}, error)
}
