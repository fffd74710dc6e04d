package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/GLH08/TuneBot/internal/logging"
	"github.com/GLH08/TuneBot/internal/script"
)

// Executor builds and issues the HTTP request a descriptor describes, then
// routes the raw response through the transform sandbox.
//
// Every failure degrades to an empty record list; callers treat empty as the
// uniform failure signal.
type Executor struct {
	http     *http.Client
	expander *script.Expander
	sandbox  *script.Sandbox
	logger   *slog.Logger
}

// NewExecutor constructs an Executor sharing the given transport.
func NewExecutor(httpClient *http.Client, expander *script.Expander, sandbox *script.Sandbox, logger *slog.Logger) *Executor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		http:     httpClient,
		expander: expander,
		sandbox:  sandbox,
		logger:   logging.NewComponentLogger(logger, "executor"),
	}
}

// Execute expands the descriptor against vars, issues the request, and
// returns the normalized records.
func (e *Executor) Execute(ctx context.Context, desc *MethodDescriptor, vars script.Variables) []script.Record {
	if desc == nil {
		return nil
	}
	logger := e.logger.With(
		slog.String(logging.FieldPlatform, desc.Platform),
		slog.String(logging.FieldOperation, desc.Operation),
		slog.String(logging.FieldCorrelationID, uuid.NewString()))

	rawURL := e.expander.Expand(desc.URLTemplate, vars)
	target, err := url.Parse(rawURL)
	if err != nil {
		logger.Warn("descriptor url invalid", slog.String("url", rawURL), logging.Error(err))
		return nil
	}

	query := target.Query()
	for name, value := range desc.Params {
		query.Set(name, e.paramString(value, vars))
	}
	target.RawQuery = query.Encode()

	method := strings.ToUpper(strings.TrimSpace(desc.HTTPMethod))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if method != http.MethodGet && desc.Body != nil {
		expanded := make(map[string]any, len(desc.Body))
		for name, value := range desc.Body {
			if s, ok := value.(string); ok {
				expanded[name] = e.expander.Expand(s, vars)
			} else {
				expanded[name] = value
			}
		}
		encoded, err := json.Marshal(expanded)
		if err != nil {
			logger.Warn("descriptor body encoding failed", logging.Error(err))
			return nil
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		logger.Warn("request build failed", logging.Error(err))
		return nil
	}
	for name, value := range desc.Headers {
		req.Header.Set(name, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.http.Do(req)
	if err != nil {
		logger.Warn("request failed", logging.Error(err))
		return nil
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("response read failed", logging.Error(err))
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("unexpected status", slog.Int("status", resp.StatusCode))
		return nil
	}

	// Some upstream endpoints mislabel JSON as text/plain, so the declared
	// content type is ignored.
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("response is not json", logging.Error(err))
		return nil
	}

	if mapping, ok := payload.(map[string]any); ok {
		if code, found := errorCode(mapping); found && code != 0 {
			logger.Warn("service reported failure", slog.Int64("code", code))
			return nil
		}
	}

	if strings.TrimSpace(desc.TransformScript) != "" {
		return e.sandbox.Run(desc.TransformScript, payload, vars)
	}

	if items, ok := payload.([]any); ok {
		records := make([]script.Record, 0, len(items))
		for _, item := range items {
			if record, ok := item.(script.Record); ok {
				records = append(records, record)
			}
		}
		return records
	}
	return nil
}

// paramString renders a descriptor parameter for the query string. String
// values are templated; everything else passes through in its JSON form.
func (e *Executor) paramString(value any, vars script.Variables) string {
	if s, ok := value.(string); ok {
		return e.expander.Expand(s, vars)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return strings.Trim(string(encoded), `"`)
}

// errorCode extracts an explicit status/error code from a JSON object payload.
func errorCode(mapping map[string]any) (int64, bool) {
	for _, key := range []string{"code", "status"} {
		if raw, ok := mapping[key]; ok {
			if number, ok := raw.(float64); ok {
				return int64(number), true
			}
		}
	}
	return 0, false
}
