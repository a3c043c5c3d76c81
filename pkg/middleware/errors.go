package middleware

import "errors"

var errAuthIssuerRequired = errors.New("auth issuer required when auth is enabled")
