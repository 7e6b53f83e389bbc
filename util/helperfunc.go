package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data"`
}

type APIErrorParams struct {
	Msg string
	Err error
}

type APISuccessParams struct {
	Msg  string
	Data interface{}
}

func callError(c *gin.Context, status int, params APIErrorParams, data interface{}) {
	resp := APIResponse{Msg: params.Msg, Data: data}
	if params.Err != nil {
		resp.Error = params.Err.Error()
	}
	c.JSON(status, resp)
}

func emptyData() map[string]interface{} { return map[string]interface{}{} }

// CallErrorNotFound answers 404.
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusNotFound, params, emptyData())
}

// CallUserError answers 400 for malformed or rejected input.
func CallUserError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusBadRequest, params, emptyData())
}

// CallValidationError answers 400 with the per-field messages as data, keyed
// by the request's JSON field names.
func CallValidationError(c *gin.Context, params APIErrorParams, fields interface{}) {
	callError(c, http.StatusBadRequest, params, fields)
}

// CallConflict answers 409 when the request lost against the current state
// of a resource.
func CallConflict(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusConflict, params, emptyData())
}

// CallServerError answers 500.
func CallServerError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusInternalServerError, params, emptyData())
}

// CallSuccessOK answers 200 with msg and data.
func CallSuccessOK(c *gin.Context, params APISuccessParams) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Msg:     params.Msg,
		Data:    params.Data,
	})
}

// CallUserNotAuthorized answers 401 with null data.
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusUnauthorized, params, nil)
}

// CallForbidden answers 403 for a signed-in caller with the wrong role.
func CallForbidden(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusForbidden, params, nil)
}

// NormalizeName trims a name and collapses inner whitespace runs to one space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
