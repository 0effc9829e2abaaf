package client

import (
	// Go Internal Packages
	"context"
	"net/http"
	"net/url"
	"strconv"

	// Local Packages
	errors "paybot-console/errors"
	models "paybot-console/models"
)

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges operator credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var res loginResponse
	err := c.sendJSON(ctx, request{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/api/login",
		body:     map[string]string{"username": username, "password": password},
		anon:     true,
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", errors.InvalidBodyErr(nil)
	}
	return res.Token, nil
}

type listResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}

// ListTransactions fetches the transactions matching q.
func (c *Client) ListTransactions(ctx context.Context, q models.Query) ([]models.Transaction, error) {
	var res listResponse
	err := c.sendJSON(ctx, request{
		endpoint: "transactions.list",
		method:   http.MethodGet,
		path:     "/api/transactions",
		params:   q.Params(),
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return res.Transactions, nil
}

// UpdateStatus requests a status transition. The backend rejects transitions out of a
// terminal status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.Status, motivo string) (*models.Transaction, error) {
	var tx models.Transaction
	err := c.sendJSON(ctx, request{
		endpoint: "transactions.status",
		method:   http.MethodPut,
		path:     "/api/transactions/" + url.PathEscape(id) + "/status",
		body:     map[string]string{"status": string(status), "motivo": motivo},
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

type ClearResult struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// ClearAll archives every current transaction.
func (c *Client) ClearAll(ctx context.Context) (*ClearResult, error) {
	var res ClearResult
	err := c.sendJSON(ctx, request{
		endpoint: "transactions.clear_all",
		method:   http.MethodPost,
		path:     "/api/transactions/clear-all",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Export downloads the transactions matching params in the given format. The content is
// returned untouched.
func (c *Client) Export(ctx context.Context, format string, params url.Values) ([]byte, error) {
	return c.send(ctx, request{
		endpoint: "transactions.export",
		method:   http.MethodGet,
		path:     "/api/transactions/export/" + url.PathEscape(format),
		params:   params,
	})
}

func periodParams(month, year int) url.Values {
	v := url.Values{}
	if month > 0 && year > 0 {
		v.Set("month", strconv.Itoa(month))
		v.Set("year", strconv.Itoa(year))
	}
	return v
}

type deletedResponse struct {
	Transactions []models.DeletedTransaction `json:"transactions"`
}

// ListDeleted fetches archived transactions, optionally restricted to one month.
func (c *Client) ListDeleted(ctx context.Context, month, year int) ([]models.DeletedTransaction, error) {
	var res deletedResponse
	err := c.sendJSON(ctx, request{
		endpoint: "transactions.deleted",
		method:   http.MethodGet,
		path:     "/api/transactions/deleted",
		params:   periodParams(month, year),
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// DeletedPDF downloads the archived transactions report.
func (c *Client) DeletedPDF(ctx context.Context, month, year int) ([]byte, error) {
	return c.send(ctx, request{
		endpoint: "transactions.deleted_pdf",
		method:   http.MethodGet,
		path:     "/api/transactions/deleted/pdf",
		params:   periodParams(month, year),
	})
}
