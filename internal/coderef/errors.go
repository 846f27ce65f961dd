package coderef

import "errors"

var errUnexpectedToken = errors.New("unexpected token")
