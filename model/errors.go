package model

import "errors"

var (
	ErrAlreadyExists  = errors.New("record already exists")
	ErrInvalidCommand = errors.New("invalid command")
)
