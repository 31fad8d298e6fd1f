package main

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

type adminClient struct {
	baseURL  string
	jobToken string
	http     *fasthttp.Client
}

func (c *adminClient) seedDistributions() error {
	body, err := c.do(fasthttp.MethodPost, "/v1/internal/jobs/seed-distributions", nil, true)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func (c *adminClient) listEvents() error {
	body, err := c.do(fasthttp.MethodGet, "/v1/events", nil, false)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func (c *adminClient) appendEvent(name string, tier int, startWeekend string) error {
	payload, err := sonic.Marshal(map[string]any{
		"name":          name,
		"tier":          tier,
		"start_weekend": startWeekend,
	})
	if err != nil {
		return fmt.Errorf("encode append-event payload: %w", err)
	}

	body, err := c.do(fasthttp.MethodPost, "/v1/internal/jobs/append-event", payload, true)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func (c *adminClient) scoreEvent(eventID string, orderedPlayers []string) error {
	payload, err := sonic.Marshal(map[string]any{
		"event_id":        eventID,
		"ordered_players": orderedPlayers,
	})
	if err != nil {
		return fmt.Errorf("encode score-event payload: %w", err)
	}

	body, err := c.do(fasthttp.MethodPost, "/v1/internal/jobs/score-event", payload, true)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func (c *adminClient) resync(maxWorkers int) error {
	var payload []byte
	if maxWorkers > 0 {
		var err error
		payload, err = sonic.Marshal(map[string]any{"max_workers": maxWorkers})
		if err != nil {
			return fmt.Errorf("encode resync payload: %w", err)
		}
	}

	body, err := c.do(fasthttp.MethodPost, "/v1/internal/jobs/resync", payload, true)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func (c *adminClient) do(method, path string, payload []byte, internal bool) ([]byte, error) {
	if internal && c.jobToken == "" {
		return nil, fmt.Errorf("INTERNAL_JOB_TOKEN is required for %s", path)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if internal {
		req.Header.Set("X-Internal-Job-Token", c.jobToken)
	}
	if len(payload) > 0 {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := c.http.Do(req, resp); err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s returned %d: %s", path, status, string(body))
	}

	return body, nil
}
