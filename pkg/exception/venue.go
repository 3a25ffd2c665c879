package exception

import "github.com/yanun0323/errors"

var (
	ErrVenueUnreachable        = errors.New("venue unreachable")
	ErrVenueForbidden          = errors.New("venue forbade the request")
	ErrVenueStatus             = errors.New("unexpected venue status")
	ErrVenueEncodeRequestBody  = errors.New("encode request body")
	ErrVenueDecodeResponseBody = errors.New("decode response body")
)
