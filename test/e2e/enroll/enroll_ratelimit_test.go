package enroll_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedeemRateLimit exhausts the strict per-IP budget on the public
// redemption endpoint. The limiter should kick in before a code-guessing
// loop gets anywhere.
func TestRedeemRateLimit(t *testing.T) {
	baseURL, _ := setupServer(t)

	var sawTooMany bool
	for range 20 {
		req, err := http.NewRequestWithContext(t.Context(),
			http.MethodPost, baseURL+"/v1/signup/redeem",
			strings.NewReader(`{"code":"ZZZZZZZZ"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			assert.NotEmpty(t, resp.Header.Get("Retry-After"))
			sawTooMany = true
			break
		}
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	assert.True(t, sawTooMany, "strict limiter should reject a redemption burst")
}
