package response

import (
	"net/http"

	"authmini/internal/domain"
)

// MsgInternal 5xx 一律返回的文案，具体原因只进日志
const MsgInternal = "internal server error"

const MsgTimeout = "request timeout"

// kindStatus 错误类别 → HTTP 状态码
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindDuplicateEmail:     http.StatusBadRequest,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindInternal:           http.StatusInternalServerError,
}

func StatusOf(k domain.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}
