package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/session"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

// request describes one logical API call resolved over the candidate list.
type request struct {
	Kind       Kind
	Method     string
	Path       string
	ResourceID string
	Body       any
	// Anonymous calls (login, register) skip the credential lookup.
	Anonymous bool
	// IdempotencyKey, when set, is sent as the Idempotency-Key header.
	IdempotencyKey string
}

// do attempts each candidate strictly in list order and returns the first
// success. One attempt per candidate, no backoff. A candidate succeeds when
// the status is 2xx and the declared content type is JSON; DELETE accepts any
// 2xx. A failing candidate is skipped silently unless it is the last one, in
// which case its HTTP error is returned. If every candidate fails at the
// transport level the result is ErrNoReachableEndpoint.
func (c *Client) do(ctx context.Context, req request) ([]byte, Candidate, error) {
	var bearer string
	if !req.Anonymous {
		tok, err := c.sess.Token()
		if err != nil {
			if errors.Is(err, session.ErrNoCredential) {
				return nil, Candidate{}, ErrCredentialMissing
			}
			return nil, Candidate{}, err
		}
		bearer = tok
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, Candidate{}, fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}

	cands := c.resolver.candidates(req.Kind, req.Path)
	var lastTransportErr error
	for i, cand := range cands {
		last := i == len(cands)-1

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, cand.URL(req.ResourceID), body)
		if err != nil {
			return nil, Candidate{}, err
		}
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if bearer != "" {
			httpReq.Header.Set("Authorization", "Bearer "+bearer)
		}
		if req.IdempotencyKey != "" {
			httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastTransportErr = err
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastTransportErr = readErr
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if req.Method == http.MethodDelete || isJSON(resp.Header.Get("Content-Type")) {
				c.resolver.promote(req.Kind, cand.Base)
				return respBody, cand, nil
			}
			// A 2xx without JSON means something else answered at this
			// address (proxy landing page etc); treat as a miss.
			lastTransportErr = fmt.Errorf("unexpected content type %q from %s", resp.Header.Get("Content-Type"), cand.Base)
			continue
		}

		herr := httpErrorFrom(resp.StatusCode, respBody)
		if last {
			return nil, cand, herr
		}
		// Failure of a non-final candidate is expected and not user-visible.
	}

	if lastTransportErr != nil {
		return nil, Candidate{}, fmt.Errorf("%w: %v", ErrNoReachableEndpoint, lastTransportErr)
	}
	return nil, Candidate{}, ErrNoReachableEndpoint
}

// doJSON runs do and decodes the response body into out when non-nil.
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	body, _, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// httpErrorFrom parses the error payload, falling back to the raw text.
func httpErrorFrom(status int, body []byte) *HTTPError {
	herr := &HTTPError{Status: status, Raw: strings.TrimSpace(string(body))}
	var eb models.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		herr.Code = eb.Code
		herr.Message = eb.Message
		if herr.Message == "" {
			herr.Message = eb.Err
		}
	}
	return herr
}
