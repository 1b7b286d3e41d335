package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// writeProblem reports a transport-level failure (a malformed frame, an
// unknown route) as application/problem+json, grounded on
// hakimelghazi-exchange-core/cmd/server/main.go's writeProblem helper.
// RPC-level rejections (declared reject.Kind values) never go through
// this path — see writeRejection in rpc.go — this is only for failures
// the wire protocol itself has no vocabulary for.
func writeProblem(w http.ResponseWriter, r *http.Request, code int, title, detail string) {
	reqID := middleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":      title,
		"status":     code,
		"detail":     detail,
		"instance":   r.URL.Path,
		"request_id": reqID,
	})
}
