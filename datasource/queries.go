package datasource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"weather-desk/models"
)

const queriesPath = "/api/queries"

// CreateQuery posts a new query. The backend geocodes the location and fetches observations.
func (c *Client) CreateQuery(ctx context.Context, in models.QueryInput) (models.Query, error) {
	res, err := c.send(ctx, http.MethodPost, queriesPath, nil, in)
	if err != nil {
		return models.Query{}, err
	}

	var q models.Query
	if err := decode(res, &q); err != nil {
		return models.Query{}, err
	}
	return q, nil
}

// ListQueries returns query summaries, newest first as ordered by the backend
func (c *Client) ListQueries(ctx context.Context) ([]models.Query, error) {
	res, err := c.send(ctx, http.MethodGet, queriesPath, nil, nil)
	if err != nil {
		return nil, err
	}

	var list []models.Query
	if err := decode(res, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetQuery returns one query with its observations.
// A missing query yields an error matching ErrNotFound.
func (c *Client) GetQuery(ctx context.Context, id int) (models.Query, error) {
	res, err := c.send(ctx, http.MethodGet, fmt.Sprintf("%s/%d", queriesPath, id), nil, nil)
	if err != nil {
		return models.Query{}, err
	}

	var q models.Query
	if err := decode(res, &q); err != nil {
		return models.Query{}, err
	}
	return q, nil
}

// UpdateQuery replaces location and date range of a query
func (c *Client) UpdateQuery(ctx context.Context, id int, in models.QueryInput) (models.Query, error) {
	res, err := c.send(ctx, http.MethodPut, fmt.Sprintf("%s/%d", queriesPath, id), nil, in)
	if err != nil {
		return models.Query{}, err
	}

	var q models.Query
	if err := decode(res, &q); err != nil {
		return models.Query{}, err
	}
	return q, nil
}

// DeleteQuery removes a query and its observations
func (c *Client) DeleteQuery(ctx context.Context, id int) error {
	res, err := c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", queriesPath, id), nil, nil)
	if err != nil {
		return err
	}
	return decode(res, nil)
}

// Export downloads all queries as "json" or "csv"
func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	format = strings.ToLower(format)
	res, err := c.send(ctx, http.MethodGet, "/export."+format, nil, nil)
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, decode(res, nil)
	}
	return res.body, nil
}
