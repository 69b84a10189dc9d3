package models

import "time"

// Credentials is the OAuth2 token set for the designated Wrike API
// account. One row per account; populated by the authorization-code
// exchange and rewritten by the token refresher.
type Credentials struct {
	Account      string    `json:"account"`
	AccessToken  string    `json:"-"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"-"`
	LastFetched  time.Time `json:"last_fetched"`
}
