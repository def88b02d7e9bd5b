package response

// Body 统一响应信封：{error, data, success}
// 成功时省略 error，失败时省略 data
type Body struct {
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	Success bool   `json:"success"`
}

func OK(data any) Body { return Body{Data: data, Success: true} }

func Fail(tag string) Body { return Body{Error: tag, Success: false} }
