package repo

// TokenStore описывает абстракцию хранилища bearer-токена на клиенте.
type TokenStore interface {
	Save(token string) error
	// Load returns ErrNoToken when no token is stored.
	Load() (string, error)
	Clear() error
}
