package http

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authmw "github.com/personalink-ai/go-chat-backend/internal/auth/middleware"
	"github.com/personalink-ai/go-chat-backend/internal/stream"
)

// Chat is the response relay endpoint: it authenticates the caller,
// loads the portfolio context, calls the answer generation service once,
// and re-emits the complete answer as a character-by-character chunked
// stream. A failure at any step is total for the request.
func (h *Handler) Chat(c *gin.Context) {
	token := authmw.ExtractBearer(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing or invalid token"})
		return
	}

	if h.verifier == nil {
		log.Printf("[error] chat: token verifier not initialized")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error: Admin SDK not available"})
		return
	}

	if _, err := h.verifier.Verify(c.Request.Context(), token); err != nil {
		log.Printf("[warn] chat: token verification failed: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"detail": "Unauthorized: Invalid token"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Message is required"})
		return
	}

	portfolioData, err := h.portfolio.Load(c.Request.Context())
	if err != nil {
		log.Printf("[error] chat: load portfolio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	answer, err := h.answerer.Answer(c.Request.Context(), req.Message, portfolioData)
	if err != nil {
		log.Printf("[error] chat: generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	h.relay(c, answer)
}

// relay drains the simulated stream into the response, flushing after
// every character so the client sees incremental chunks.
func (h *Handler) relay(c *gin.Context, answer string) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)

	r := stream.NewReader(c.Request.Context(), answer, h.charDelay)
	buf := make([]byte, 8)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			// Client went away or context cancelled; nothing to send.
			return
		}
	}
}
