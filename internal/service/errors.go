package service

import "errors"

// Failure messages match the public API's original wording; handlers return
// them verbatim in the JSON envelope.
var (
	ErrInvalidInput       = errors.New("参数缺失")
	ErrInvalidRequest     = errors.New("参数错误")
	ErrInvalidUsername    = errors.New("用户名需为1-10个汉字")
	ErrConflict           = errors.New("账号已存在")
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrUploadFailed       = errors.New("头像上传失败")
)
