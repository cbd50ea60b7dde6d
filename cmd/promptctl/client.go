package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/promptvault/promptvault/internal/model"
)

// promptClient talks to the prompt-service REST API.
type promptClient struct {
	http *resty.Client
}

func newPromptClient(baseURL string) *promptClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &promptClient{http: c}
}

// apiError extracts the server's error payload when the call failed.
func apiError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
}

func (c *promptClient) List(criteria model.SearchCriteria) ([]model.Prompt, error) {
	var out struct {
		Prompts []model.Prompt `json:"prompts"`
	}
	req := c.http.R().SetResult(&out)
	if criteria.Query != "" {
		req.SetQueryParam("query", criteria.Query)
	}
	if criteria.Category != "" {
		req.SetQueryParam("category", string(criteria.Category))
	}
	if len(criteria.Tags) > 0 {
		req.SetQueryParam("tags", strings.Join(criteria.Tags, ","))
	}
	if criteria.Author != "" {
		req.SetQueryParam("author", criteria.Author)
	}
	if criteria.Limit > 0 {
		req.SetQueryParam("limit", fmt.Sprintf("%d", criteria.Limit))
	}
	resp, err := req.Get("/api/prompts")
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

func (c *promptClient) Get(id string) (*model.Prompt, error) {
	var out model.Prompt
	resp, err := c.http.R().SetResult(&out).Get("/api/prompts/" + id)
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *promptClient) Create(req model.CreatePromptRequest) (*model.Prompt, error) {
	var out model.Prompt
	resp, err := c.http.R().SetBody(req).SetResult(&out).Post("/api/prompts")
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *promptClient) Render(id string, values map[string]model.Value) (*model.RenderResult, error) {
	var out model.RenderResult
	body := map[string]interface{}{"values": values}
	resp, err := c.http.R().SetBody(body).SetResult(&out).Post("/api/prompts/" + id + "/render")
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *promptClient) SetFavorite(id string, fav bool) error {
	resp, err := c.http.R().
		SetBody(map[string]bool{"isFavorite": fav}).
		Put("/api/prompts/" + id + "/favorite")
	if err != nil {
		return err
	}
	return apiError(resp)
}

func (c *promptClient) Delete(id string) error {
	resp, err := c.http.R().Delete("/api/prompts/" + id)
	if err != nil {
		return err
	}
	return apiError(resp)
}

func (c *promptClient) CategoryStats() (*model.CategoryStatistics, error) {
	var out model.CategoryStatistics
	resp, err := c.http.R().SetResult(&out).Get("/api/categories/stats")
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}
