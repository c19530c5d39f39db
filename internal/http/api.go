package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coderTechJordan/UserService-Backend/internal/dispatch"
)

// Handler translates HTTP traffic into dispatch envelopes and back. It owns
// no routing decisions beyond registering paths; the dispatcher decides what
// each method/path combination means.
type Handler struct {
	dispatcher *dispatch.Dispatcher
}

func NewHandler(dispatcher *dispatch.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/users", h.dispatchRequest)
	router.GET("/users", h.dispatchRequest)
	router.GET("/users/:userId", h.dispatchRequest)
	router.PUT("/users/:userId", h.dispatchRequest)
	router.DELETE("/users/:userId", h.dispatchRequest)

	// Unrecognized combinations still flow through the dispatcher so they
	// produce the standard error envelope instead of gin's default 404.
	router.NoRoute(h.dispatchRequest)
	router.NoMethod(h.dispatchRequest)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

func (h *Handler) dispatchRequest(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := dispatch.Request{
		HTTPMethod: c.Request.Method,
		Path:       c.Request.URL.Path,
		Body:       string(body),
	}
	if id := c.Param("userId"); id != "" {
		req.PathParameters = map[string]string{"userId": id}
	}

	resp := h.dispatcher.Dispatch(c.Request.Context(), req)
	writeResponse(c, resp)
}

func writeResponse(c *gin.Context, resp dispatch.Response) {
	contentType := "application/json"
	for name, value := range resp.Headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			contentType = value
			continue
		}
		c.Header(name, value)
	}
	c.Data(resp.StatusCode, contentType, []byte(resp.Body))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
