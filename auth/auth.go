package auth

import (
	"fmt"
	"net/http"
	"sort"
)

// IAuth 在请求发出前写入认证信息
type IAuth interface {
	Name() string
	Apply(req *http.Request)
}

type CreateFunc func(user string, secret string) IAuth

var mp = make(map[string]CreateFunc)

func register(name string, fn CreateFunc) {
	mp[name] = fn
}

func Create(name string, user string, secret string) (IAuth, error) {
	fn, ok := mp[name]
	if !ok {
		return nil, fmt.Errorf("auth type not found, name:%s", name)
	}
	return fn(user, secret), nil
}

func List() []string {
	rs := make([]string, 0, len(mp))
	for name := range mp {
		rs = append(rs, name)
	}
	sort.Strings(rs)
	return rs
}
