// Package ai wraps the upstream content service that produces listing
// descriptions and marketing images for new products.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/config"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
)

// ContentGenerator produces AI-generated listing content.
type ContentGenerator interface {
	GenerateDescription(ctx context.Context, productName string, category string) (string, error)
	GenerateImage(ctx context.Context, productName string, category string) (string, error)
}

// Client talks to the content generation service over HTTP.
type Client struct {
	http *resty.Client
}

// New builds a Client from configuration.
func New(cfg config.ContentAIConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{http: httpClient}
}

type generateRequest struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

type descriptionResponse struct {
	Description string `json:"description"`
}

type imageResponse struct {
	URL string `json:"url"`
}

// GenerateDescription asks the content service for a short listing description.
func (c *Client) GenerateDescription(ctx context.Context, productName string, category string) (string, error) {
	var out descriptionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{ProductName: productName, Category: category}).
		SetResult(&out).
		Post("/v1/descriptions")
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "content service unreachable")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", errors.New(errors.CodeDependency, fmt.Sprintf("content service returned status %d", resp.StatusCode()))
	}
	if strings.TrimSpace(out.Description) == "" {
		return "", errors.New(errors.CodeDependency, "content service returned an empty description")
	}
	return out.Description, nil
}

// GenerateImage asks the content service for a product image URL.
func (c *Client) GenerateImage(ctx context.Context, productName string, category string) (string, error) {
	var out imageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{ProductName: productName, Category: category}).
		SetResult(&out).
		Post("/v1/images")
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "content service unreachable")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", errors.New(errors.CodeDependency, fmt.Sprintf("content service returned status %d", resp.StatusCode()))
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", errors.New(errors.CodeDependency, "content service returned an empty image url")
	}
	return out.URL, nil
}
