package commerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// SearchCustomers looks up individual (B2C) buyers by name or phone.
func (c *Client) SearchCustomers(query string) ([]Customer, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/customers",
		Query:  map[string]string{"q": strings.TrimSpace(query)},
	})
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	if err := checkStatus(resp, "search customers"); err != nil {
		return nil, err
	}

	var out struct {
		Data []Customer `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal customers: %w", err)
	}
	return out.Data, nil
}

// SearchBusinessProfiles looks up B2B buyer profiles by name or GSTIN.
func (c *Client) SearchBusinessProfiles(query string) ([]BusinessProfile, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/business-profiles",
		Query:  map[string]string{"q": strings.TrimSpace(query)},
	})
	if err != nil {
		return nil, fmt.Errorf("search business profiles: %w", err)
	}
	if err := checkStatus(resp, "search business profiles"); err != nil {
		return nil, err
	}

	var out struct {
		Data []BusinessProfile `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal business profiles: %w", err)
	}
	return out.Data, nil
}

// GetCustomer fetches one B2C customer with its address list.
func (c *Client) GetCustomer(id string) (*Customer, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/customers/" + id,
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if err := checkStatus(resp, "get customer"); err != nil {
		return nil, err
	}

	var out struct {
		Data Customer `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &out.Data, nil
}

// GetBusinessProfile fetches one B2B profile with its address list.
func (c *Client) GetBusinessProfile(id string) (*BusinessProfile, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/business-profiles/" + id,
	})
	if err != nil {
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	if err := checkStatus(resp, "get business profile"); err != nil {
		return nil, err
	}

	var out struct {
		Data BusinessProfile `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal business profile: %w", err)
	}
	return &out.Data, nil
}

// CreateBusinessProfile registers a new B2B profile. The caller validates
// the GSTIN before this is invoked.
func (c *Client) CreateBusinessProfile(profile BusinessProfile) (*BusinessProfile, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodPost,
		Path:   "v1/business-profiles",
		Body:   profile,
	})
	if err != nil {
		return nil, fmt.Errorf("create business profile: %w", err)
	}
	if err := checkStatus(resp, "create business profile"); err != nil {
		return nil, err
	}

	var out struct {
		Data BusinessProfile `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal business profile: %w", err)
	}
	return &out.Data, nil
}

// SearchProducts runs a catalog search. The raw response body is returned so
// the typeahead cache can store it verbatim.
func (c *Client) SearchProducts(query string) ([]byte, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/products",
		Query:  map[string]string{"q": strings.TrimSpace(query)},
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if err := checkStatus(resp, "search products"); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// GetProduct fetches one catalog product with variants.
func (c *Client) GetProduct(id string) (*Product, error) {
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/products/" + id,
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := checkStatus(resp, "get product"); err != nil {
		return nil, err
	}

	var out struct {
		Data Product `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &out.Data, nil
}

// SubmitOrder creates the order on the commerce API.
func (c *Client) SubmitOrder(sub OrderSubmission) (*OrderResult, error) {
	if len(sub.Lines) == 0 {
		return nil, errors.New("order has no lines")
	}

	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodPost,
		Path:   "v1/orders",
		Body:   sub,
	})
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if err := checkStatus(resp, "submit order"); err != nil {
		return nil, err
	}

	var out struct {
		Data OrderResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal order result: %w", err)
	}
	if out.Data.OrderID == "" {
		return nil, errors.New("order result missing order_id")
	}
	return &out.Data, nil
}

// ListProcurements fetches procurement records, optionally filtered by status.
func (c *Client) ListProcurements(status string) ([]Procurement, error) {
	query := map[string]string{}
	if status != "" {
		query["status"] = status
	}
	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodGet,
		Path:   "v1/procurements",
		Query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("list procurements: %w", err)
	}
	if err := checkStatus(resp, "list procurements"); err != nil {
		return nil, err
	}

	var out struct {
		Data []Procurement `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal procurements: %w", err)
	}
	return out.Data, nil
}

// CreateProcurement registers an inbound stock purchase.
func (c *Client) CreateProcurement(p Procurement) (*Procurement, error) {
	if len(p.Items) == 0 {
		return nil, errors.New("procurement has no items")
	}

	resp, err := c.DoRequest(RequestOpts{
		Method: http.MethodPost,
		Path:   "v1/procurements",
		Body:   p,
	})
	if err != nil {
		return nil, fmt.Errorf("create procurement: %w", err)
	}
	if err := checkStatus(resp, "create procurement"); err != nil {
		return nil, err
	}

	var out struct {
		Data Procurement `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal procurement: %w", err)
	}
	return &out.Data, nil
}

func checkStatus(resp *Response, op string) error {
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("%s: status %d body %s", op, resp.Status, string(resp.Body))
	}
	return nil
}
