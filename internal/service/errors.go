package service

import "errors"

var (
	// ErrInvalidInput 表示请求内容未通过校验。
	ErrInvalidInput = errors.New("invalid input")
	// ErrConversationNotFound 表示引用的对话不存在。
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrUserNotFound 表示引用的用户不存在。
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken 表示用户名已被占用。
	ErrUsernameTaken = errors.New("username already exists")
)
