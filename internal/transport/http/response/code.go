package response

import "net/http"

// 业务错误标签（与响应 error 字段一一对应）
const (
	TagValidationError      = "ValidationError"
	TagEmailAlreadyInUse    = "EmailAlreadyInUse"
	TagUsernameAlreadyTaken = "UsernameAlreadyTaken"
	TagUserNotFound         = "UserNotFound"
	TagServerError          = "ServerError"
)

// TagStatusMap 集中管理 tag - HTTP 状态码
var TagStatusMap = map[string]int{
	TagValidationError:      http.StatusBadRequest,
	TagEmailAlreadyInUse:    http.StatusConflict,
	TagUsernameAlreadyTaken: http.StatusConflict,
	TagUserNotFound:         http.StatusNotFound,
	TagServerError:          http.StatusInternalServerError,
}

func StatusOf(tag string) int {
	if s, ok := TagStatusMap[tag]; ok {
		return s
	}
	return http.StatusInternalServerError
}
