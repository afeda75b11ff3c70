package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
