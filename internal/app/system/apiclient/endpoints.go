package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/garajhub/internal/domain/models"
)

// ListParams are the query parameters shared by the paged list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	page := p.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		v.Set("search", s)
	}
	if s := strings.TrimSpace(p.Status); s != "" && s != "all" {
		v.Set("status", s)
	}
	return v
}

func idPath(prefix string, id int64, suffix ...string) string {
	p := prefix + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

/*─────────────────────────────────────────────────────────────────────────────*
| Auth                                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// Login exchanges credentials for a bearer token (POST /auth/login).
func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.Do(ctx, "", Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   models.LoginRequest{Username: username, Password: password},
	}, &out)
	return out, err
}

// Me returns the admin the token belongs to (GET /auth/me).
func (c *Client) Me(ctx context.Context, token string) (models.Admin, error) {
	var out models.Admin
	err := c.Do(ctx, token, Request{Path: "/auth/me"}, &out)
	return out, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Statistics                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Statistics returns the summary counters (GET /statistics).
func (c *Client) Statistics(ctx context.Context, token string) (models.Statistics, error) {
	var out models.Statistics
	err := c.Do(ctx, token, Request{Path: "/statistics"}, &out)
	return out, err
}

func periodQuery(period string) url.Values {
	if period == "" {
		return nil
	}
	return url.Values{"period": {period}}
}

// Chart returns a single-series chart: user_growth or startup_distribution.
func (c *Client) Chart(ctx context.Context, token, kind, period string) (models.ChartSeries, error) {
	var out models.ChartSeries
	err := c.Do(ctx, token, Request{
		Path:  "/statistics/chart/" + url.PathEscape(kind),
		Query: periodQuery(period),
	}, &out)
	return out, err
}

// ActivityChart returns the two-series activity chart.
func (c *Client) ActivityChart(ctx context.Context, token, period string) (models.ActivityChart, error) {
	var out models.ActivityChart
	err := c.Do(ctx, token, Request{
		Path:  "/statistics/chart/" + models.ChartActivity,
		Query: periodQuery(period),
	}, &out)
	return out, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ListUsers returns one page of users (GET /users).
func (c *Client) ListUsers(ctx context.Context, token string, p ListParams) (models.UserList, error) {
	var out models.UserList
	err := c.Do(ctx, token, Request{Path: "/users", Query: p.values()}, &out)
	return out, err
}

// GetUser returns a user with their startups and join requests.
func (c *Client) GetUser(ctx context.Context, token string, id int64) (models.UserDetail, error) {
	var out models.UserDetail
	err := c.Do(ctx, token, Request{Path: idPath("/users", id)}, &out)
	return out, err
}

// SetUserStatus changes a user's status (PUT /users/{id}/status).
func (c *Client) SetUserStatus(ctx context.Context, token string, id int64, status string) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.Do(ctx, token, Request{
		Method: http.MethodPut,
		Path:   idPath("/users", id, "status"),
		Body:   map[string]string{"status": status},
	}, &out)
	return out, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Startups                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ListStartups returns one page of startups (GET /startups).
func (c *Client) ListStartups(ctx context.Context, token string, p ListParams) (models.StartupList, error) {
	var out models.StartupList
	err := c.Do(ctx, token, Request{Path: "/startups", Query: p.values()}, &out)
	return out, err
}

// GetStartup returns a startup with its members.
func (c *Client) GetStartup(ctx context.Context, token string, id int64) (models.StartupDetail, error) {
	var out models.StartupDetail
	err := c.Do(ctx, token, Request{Path: idPath("/startups", id)}, &out)
	return out, err
}

// UpdateStartup applies a partial update (PUT /startups/{id}).
func (c *Client) UpdateStartup(ctx context.Context, token string, id int64, upd models.StartupUpdate) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.Do(ctx, token, Request{
		Method: http.MethodPut,
		Path:   idPath("/startups", id),
		Body:   upd,
	}, &out)
	return out, err
}

// DeleteStartup removes a startup and its memberships. Superadmin only.
func (c *Client) DeleteStartup(ctx context.Context, token string, id int64) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.Do(ctx, token, Request{
		Method: http.MethodDelete,
		Path:   idPath("/startups", id),
	}, &out)
	return out, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admins, broadcast, backup                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ListAdmins returns every admin account. Superadmin only.
func (c *Client) ListAdmins(ctx context.Context, token string) (models.AdminList, error) {
	var out models.AdminList
	err := c.Do(ctx, token, Request{Path: "/admins"}, &out)
	return out, err
}

// CreateAdmin creates an admin account. Superadmin only.
func (c *Client) CreateAdmin(ctx context.Context, token string, in models.AdminCreate) (models.AdminCreated, error) {
	var out models.AdminCreated
	err := c.Do(ctx, token, Request{
		Method: http.MethodPost,
		Path:   "/admins",
		Body:   in,
	}, &out)
	return out, err
}

// Broadcast queues a message to a recipient group. The API sends it in the
// background and answers immediately.
func (c *Client) Broadcast(ctx context.Context, token string, msg models.BroadcastMessage) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.Do(ctx, token, Request{
		Method: http.MethodPost,
		Path:   "/broadcast",
		Body:   msg,
	}, &out)
	return out, err
}

// Backup asks the API to snapshot its database. Superadmin only.
func (c *Client) Backup(ctx context.Context, token string) (models.BackupResult, error) {
	var out models.BackupResult
	err := c.Do(ctx, token, Request{Path: "/backup"}, &out)
	return out, err
}

// BackupPath returns the API path of a backup file.
func BackupPath(filename string) string {
	return "/backup/" + url.PathEscape(filename)
}
