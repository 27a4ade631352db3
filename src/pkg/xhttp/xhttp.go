// Package xhttp 统一的 HTTP 响应包装
package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
)

// Response 统一响应体
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson 成功响应
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: errcode.CodeOK,
		Msg:  "successful",
		Data: data,
	})
}

// Error 业务失败响应
// *errcode.Err 携带业务码原样返回, 其它错误一律按内部错误处理
func Error(c *gin.Context, err error) {
	if e, ok := err.(*errcode.Err); ok {
		c.JSON(http.StatusOK, Response{
			Code: e.Code(),
			Msg:  e.Msg(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code: errcode.ErrUnexpected.Code(),
		Msg:  errcode.ErrUnexpected.Msg(),
	})
}
