package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxDecompressedBody bounds the size of a gzip encoded request once inflated.
const MaxDecompressedBody = 1 << 20

// DecompressRequest inflates gzip request bodies in place. Identity and empty
// encodings pass through; anything else is refused with 415.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding"))) {
		case "", "identity":
			c.Next()
			return
		case "gzip":
		default:
			c.AbortWithStatus(http.StatusUnsupportedMediaType)
			return
		}

		compressed := c.Request.Body
		inflater, err := gzip.NewReader(compressed)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer func() {
			_ = inflater.Close()
			_ = compressed.Close()
		}()

		c.Request.Body = io.NopCloser(io.LimitReader(inflater, MaxDecompressedBody))
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
