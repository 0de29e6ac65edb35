// Package nexus resolves Nexus Mods profile URLs to a display name and avatar.
package nexus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const DefaultGraphQLURL = "https://api.nexusmods.com/v2/graphql"

var (
	ErrInvalidProfileURL = errors.New("not a nexus mods profile url")
	ErrUserNotFound      = errors.New("nexus user not found")
)

var profilePath = regexp.MustCompile(`(?i)^/profile/([^/?#]+)`)

const userByNameQuery = `query userByName($name: String!) {
  userByName(name: $name) {
    name
    avatar
    memberId
  }
}`

type Author struct {
	URL       string
	Name      string
	AvatarURL string
}

type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(graphqlURL string) *Client {
	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}
	return &Client{URL: graphqlURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// ParseProfileUsername extracts <name> from https://www.nexusmods.com/profile/<name>.
func ParseProfileUsername(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidProfileURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidProfileURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "nexusmods.com" {
		return "", ErrInvalidProfileURL
	}
	m := profilePath.FindStringSubmatch(u.EscapedPath())
	if m == nil {
		return "", ErrInvalidProfileURL
	}
	name, err := url.PathUnescape(m[1])
	if err != nil || strings.TrimSpace(name) == "" {
		return "", ErrInvalidProfileURL
	}
	return name, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data struct {
		UserByName *struct {
			Name     string `json:"name"`
			Avatar   string `json:"avatar"`
			MemberID int64  `json:"memberId"`
		} `json:"userByName"`
	} `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// ResolveAuthor looks the profile's user up by name.
func (c *Client) ResolveAuthor(ctx context.Context, profileURL string) (*Author, error) {
	username, err := ParseProfileUsername(profileURL)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(gqlRequest{
		Query:     userByNameQuery,
		Variables: map[string]any{"name": username},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nexus graphql: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nexus graphql: status %d", res.StatusCode)
	}

	var out gqlResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("nexus graphql: decode: %w", err)
	}
	if len(out.Errors) > 0 || out.Data.UserByName == nil {
		return nil, ErrUserNotFound
	}

	user := out.Data.UserByName
	author := &Author{
		URL:       strings.TrimSpace(profileURL),
		Name:      user.Name,
		AvatarURL: user.Avatar,
	}
	if author.Name == "" {
		author.Name = username
	}
	if author.AvatarURL == "" {
		author.AvatarURL = fmt.Sprintf("https://avatars.nexusmods.com/%d/100", user.MemberID)
	}
	return author, nil
}
