package auth

import "net/http"

const (
	TokenAuthName    = "token"
	defaultTokenType = "Bearer"
)

func init() {
	register(TokenAuthName, NewToken)
}

type tokenAuth struct {
	tokenType string
	token     string
}

// NewToken sends "Authorization: <tokenType> <token>", tokenType defaults to Bearer.
func NewToken(tokenType string, token string) IAuth {
	if len(tokenType) == 0 {
		tokenType = defaultTokenType
	}
	return &tokenAuth{tokenType: tokenType, token: token}
}

func (t *tokenAuth) Name() string {
	return TokenAuthName
}

func (t *tokenAuth) Apply(req *http.Request) {
	if len(t.token) == 0 {
		return
	}
	req.Header.Set("Authorization", t.tokenType+" "+t.token)
}
