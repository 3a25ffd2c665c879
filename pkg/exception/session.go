package exception

import "github.com/yanun0323/errors"

var (
	ErrSessionUnauthorized = errors.New("session rejected by venue")
	ErrSessionTokenMissing = errors.New("auth response carries no token")
)
