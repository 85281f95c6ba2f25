package common

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	Status   int         `json:"status"`
	Error    *string     `json:"error"`
	Messages *string     `json:"messages"`
	Data     interface{} `json:"data"`
}

func OK(c *gin.Context, message string, data interface{}) {
	var msg *string
	if message != "" {
		msg = &message
	}
	c.JSON(http.StatusOK, Envelope{Status: http.StatusOK, Messages: msg, Data: data})
}

// Created is OK for resource-creating endpoints.
func Created(c *gin.Context, message string, data interface{}) {
	var msg *string
	if message != "" {
		msg = &message
	}
	c.JSON(http.StatusCreated, Envelope{Status: http.StatusCreated, Messages: msg, Data: data})
}

// Fail writes the envelope for err. Internal failures are logged but
// never echoed to the caller.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = ErrStorage.Error()
	}
	c.JSON(status, Envelope{Status: status, Error: &msg})
}

// FailValidation wraps a binding/parsing problem as a ValidationError.
func FailValidation(c *gin.Context, detail string) {
	Fail(c, fmt.Errorf("%w: %s", ErrValidation, detail))
}
