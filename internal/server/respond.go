package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/factionmap/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps err to a status through its code. Errors without a code
// are reported as internal errors without their message.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, errors.HTTPStatus(code), errorBody{Error: msg, Code: code})
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// queryList splits a comma-separated query parameter.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range strings.Split(r.URL.Query().Get(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
