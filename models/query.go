package models

import "net/url"

// Query is the composed filter shared by the transaction listing and the export request.
// Empty fields are not sent.
type Query struct {
	Status string `json:"status,omitempty"`
	Type   string `json:"type,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Search string `json:"search,omitempty"`
}

// Params encodes the restricting axes as URL query parameters.
func (q Query) Params() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("status", q.Status)
	set("type", q.Type)
	set("from", q.From)
	set("to", q.To)
	set("search", q.Search)
	return v
}
