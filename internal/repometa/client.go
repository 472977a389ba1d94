// Package repometa 从代码托管平台拉取公开仓库信息，用于预填项目条目。
// 返回的所有文本都视为不可信输入。
package repometa

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"

	"folio/internal/errcode"
	"folio/internal/format"
	"folio/internal/resume"
)

const (
	maxResponseBytes = 2 << 20
	maxTextRunes     = 500
	DefaultLimit     = 30
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// Repo 是清洗后的仓库信息。
type Repo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Language    string    `json:"language"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Fork        bool      `json:"fork"`
}

// Client 调用 GitHub REST 接口 GET /users/{user}/repos。
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	policy  *bluemonday.Policy
}

// NewClient 创建客户端；baseURL 为空时使用 api.github.com。
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		policy:  bluemonday.StrictPolicy(),
	}
}

// FetchRepos 返回用户最近更新的仓库，最多 limit 个。
func (c *Client) FetchRepos(ctx context.Context, user string, limit int) ([]Repo, error) {
	user = strings.TrimSpace(user)
	if !usernamePattern.MatchString(user) {
		return nil, errcode.Wrap(errcode.ErrMalformedEntry, "invalid username %q", user)
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", fmt.Sprint(limit))
	endpoint := c.baseURL + "/users/" + url.PathEscape(user) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch repos: %w: %w", err, errcode.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errcode.Wrap(errcode.ErrResourceMissing, "user %q not found", user)
	case resp.StatusCode/100 != 2:
		return nil, errcode.Wrap(errcode.ErrServiceUnavailable, "repository host status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errcode.Wrap(errcode.ErrServiceUnavailable, "repository host returned invalid json")
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, errcode.Wrap(errcode.ErrServiceUnavailable, "repository host returned %s", parsed.Type)
	}

	repos := make([]Repo, 0, len(parsed.Array()))
	parsed.ForEach(func(_, v gjson.Result) bool {
		r := Repo{
			Name:        c.clean(v.Get("name").String()),
			Description: c.clean(v.Get("description").String()),
			URL:         format.SanitizeLink(v.Get("html_url").String()),
			Language:    c.clean(v.Get("language").String()),
			Fork:        v.Get("fork").Bool(),
		}
		if t, err := time.Parse(time.RFC3339, v.Get("updated_at").String()); err == nil {
			r.UpdatedAt = t.UTC()
		}
		if r.Name != "" {
			repos = append(repos, r)
		}
		return len(repos) < limit
	})
	return repos, nil
}

// clean 去除所有标记，还原实体并压缩空白。
func (c *Client) clean(s string) string {
	s = html.UnescapeString(c.policy.Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxTextRunes {
		s = string(r[:maxTextRunes])
	}
	return s
}

// ToProjects 把仓库转换为项目条目，跳过 fork。每个条目获得新的 ID。
func ToProjects(repos []Repo) []resume.Project {
	out := make([]resume.Project, 0, len(repos))
	for _, r := range repos {
		if r.Fork {
			continue
		}
		out = append(out, resume.Project{
			ID:           resume.NewID(),
			Name:         r.Name,
			Technologies: r.Language,
			Description:  r.Description,
			Link:         r.URL,
		})
	}
	return out
}

// AppendProjects 把仓库追加到文档的项目列表，按链接去重。
func AppendProjects(d resume.Document, repos []Repo) resume.Document {
	out := d.Clone()
	seen := make(map[string]struct{}, len(out.Projects))
	for _, p := range out.Projects {
		if p.Link != "" {
			seen[format.SanitizeLink(p.Link)] = struct{}{}
		}
	}
	for _, p := range ToProjects(repos) {
		key := format.SanitizeLink(p.Link)
		if _, dup := seen[key]; dup && key != "" {
			continue
		}
		seen[key] = struct{}{}
		out.Projects = append(out.Projects, p)
	}
	return out
}
