package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen key for retry-safe checkout
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds keys stored in Redis
const MaxIdempotencyKeyLength = 128

// IdempotencyKey reads and checks the Idempotency-Key header. An absent
// header yields ("", true). A malformed one aborts the request with 400.
func IdempotencyKey(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" {
		return "", true
	}
	if len(key) > MaxIdempotencyKeyLength || !printableASCII(key) {
		abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key must be printable ASCII of at most 128 characters")
		return "", false
	}
	return key, true
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
