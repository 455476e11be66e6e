package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
)

const sessionHeader = "X-Session-Id"

// SessionID extracts the anonymous storefront session identifier from the
// request. The header wins over the query parameter.
func SessionID(r *http.Request) (string, error) {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(r.URL.Query().Get("sessionId")); id != "" {
		return id, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
}
