package auth

import "errors"

var (
	// Directory service errors
	ErrDirectoryConnection  = errors.New("failed to connect to directory service")
	ErrDirectoryInvalidResp = errors.New("invalid response from directory service")
)
