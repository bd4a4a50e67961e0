// Package identity exposes the authenticated caller's identity as supplied
// by the external identity provider. The service never issues sessions
// itself; it only verifies bearer tokens and echoes the claims they carry.
package identity

// Identity is the verified subject of a request.
type Identity struct {
	ID         string `json:"id"`
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}
