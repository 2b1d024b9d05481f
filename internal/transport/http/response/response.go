package response

import "github.com/gin-gonic/gin"

// Message is the body of every error and of plain acknowledgements.
type Message struct {
	Message string `json:"message"`
}

func New(code int, msg string) Message {
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return Message{Message: msg}
}

// Abort stops the chain and writes {"message": msg}. An empty msg uses the status default.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, New(code, msg))
}
