package client

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-resty/resty/v2"
)

// responseEnvelope is the success half of the service's wire format:
// {"success": true, "data": {...}}. A handful of endpoints (health) return
// their payload bare, so decoding falls back to the whole body when the
// data field is absent.
type responseEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (c *client) newRequest(ctx context.Context) *resty.Request {
	return c.restyClient.R().SetContext(ctx)
}

// do executes one prepared request and decodes the result into out (which may
// be nil for operations with no interesting payload). Retries happen inside
// resty per the configured policy; by the time do sees an error or a final
// response, the retry budget is spent.
func (c *client) do(req *resty.Request, method, path, operation string, out any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return transportError(operation, err)
	}

	body := resp.Body()

	if resp.StatusCode() >= 400 {
		return classifyResponse(resp.StatusCode(), body)
	}

	if len(body) == 0 {
		if out == nil {
			return nil
		}
		return invalidJSONError(resp.StatusCode(), errors.New("empty response body"))
	}

	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return invalidJSONError(resp.StatusCode(), err)
	}

	if out == nil {
		return nil
	}

	data := env.Data
	if data == nil {
		data = body
	}

	if err := json.Unmarshal(data, out); err != nil {
		return invalidJSONError(resp.StatusCode(), err)
	}

	return nil
}
