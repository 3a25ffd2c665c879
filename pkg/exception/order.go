package exception

import "github.com/yanun0323/errors"

var (
	ErrOrderInvalidRequest   = errors.New("invalid order request")
	ErrOrderQuantityTooSmall = errors.New("quantity below venue minimum")
	ErrOrderInvalidPrice     = errors.New("limit price must be positive")
)
