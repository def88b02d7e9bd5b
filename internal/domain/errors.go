package domain

import "errors"

// 业务错误集合：handler 层统一映射为响应信封
var (
	ErrValidation    = errors.New("ValidationError")
	ErrEmailInUse    = errors.New("EmailAlreadyInUse")
	ErrUsernameTaken = errors.New("UsernameAlreadyTaken")
	ErrUserNotFound  = errors.New("UserNotFound")
)
