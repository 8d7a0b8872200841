package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseData is the JSON envelope of every API answer. Error answers carry
// the user-facing text in Error and may still carry Data, such as the form
// state or a redirect target.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RedirectData tells the browser where to navigate next.
type RedirectData struct {
	Redirect string `json:"redirect"`
	Reload   bool   `json:"reload,omitempty"`
}

const failedMessage = "Ocurrió un error"

// defaultErrors is the text sent when a handler passes an empty message.
var defaultErrors = map[int]string{
	http.StatusBadRequest:          "Solicitud inválida",
	http.StatusUnauthorized:        "Sesión no válida",
	http.StatusNotFound:            "Recurso no encontrado",
	http.StatusConflict:            "La solicitud fue reemplazada por una más reciente",
	http.StatusBadGateway:          "El servicio de citas no respondió correctamente",
	http.StatusInternalServerError: "Error interno del servidor",
}

// Success sends a 200 envelope.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{Status: http.StatusOK, Message: message, Data: data})
}

// Created sends a 201 envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{Status: http.StatusCreated, Message: message, Data: data})
}

// Navigate sends a 200 envelope whose data is the page to open next.
func Navigate(c *gin.Context, message, target string) {
	Success(c, message, RedirectData{Redirect: target})
}

// Error aborts the request with an error envelope.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	ErrorWithData(c, statusCode, errorMessage, nil)
}

// ErrorWithData aborts the request with an error envelope carrying data. The
// remaining handlers of the chain are skipped.
func ErrorWithData(c *gin.Context, statusCode int, errorMessage string, data interface{}) {
	if errorMessage == "" {
		errorMessage = defaultErrors[statusCode]
	}
	if errorMessage == "" {
		errorMessage = http.StatusText(statusCode)
	}
	c.AbortWithStatusJSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: failedMessage,
		Data:    data,
		Error:   errorMessage,
	})
}

func BadRequest(c *gin.Context, errorMessage string)   { Error(c, http.StatusBadRequest, errorMessage) }
func Unauthorized(c *gin.Context, errorMessage string) { Error(c, http.StatusUnauthorized, errorMessage) }
func NotFound(c *gin.Context, errorMessage string)     { Error(c, http.StatusNotFound, errorMessage) }
func Conflict(c *gin.Context, errorMessage string)     { Error(c, http.StatusConflict, errorMessage) }

// BadGateway reports a failure of the identity or psi API.
func BadGateway(c *gin.Context, errorMessage string) { Error(c, http.StatusBadGateway, errorMessage) }

func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
