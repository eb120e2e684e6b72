package gemini

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"promptstudio-go/internal/constants"
)

func userAgent() string {
	return fmt.Sprintf("promptstudio-go/%s (%s; %s)", constants.Version, runtime.GOOS, runtime.GOARCH)
}

// applyDefaultHeaders centralizes default header logic
func (c *Client) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("User-Agent", userAgent())
	gv := strings.TrimPrefix(runtime.Version(), "go")
	if gv == "" {
		gv = "unknown"
	}
	req.Header.Set("X-Goog-Api-Client", "gl-go/"+gv)
}
