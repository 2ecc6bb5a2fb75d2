package repo

import "errors"

// ErrNoToken is returned by TokenStore.Load when the session is absent.
var ErrNoToken = errors.New("no auth token stored")

// UserContextStore абстракция для хранения контекста пользователя (email последнего входа).
type UserContextStore interface {
	SaveLogin(email string) error
	LoadLogin() (string, error)
}
