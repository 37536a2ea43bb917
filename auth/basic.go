package auth

import "net/http"

const (
	BasicAuthName = "basic"
)

func init() {
	register(BasicAuthName, NewBasic)
}

type basicAuth struct {
	user     string
	password string
}

func NewBasic(user string, password string) IAuth {
	return &basicAuth{user: user, password: password}
}

func (b *basicAuth) Name() string {
	return BasicAuthName
}

func (b *basicAuth) Apply(req *http.Request) {
	if len(b.user) == 0 {
		return
	}
	req.SetBasicAuth(b.user, b.password)
}
