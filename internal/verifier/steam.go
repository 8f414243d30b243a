package verifier

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

var (
	steamID64Pattern = regexp.MustCompile(`^7656\d{13}$`)
	steamProfileURL  = regexp.MustCompile(`steamcommunity\.com/profiles/(\d+)`)
	steamVanityURL   = regexp.MustCompile(`steamcommunity\.com/id/([^/\s]+)`)
)

type steamVanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

type steamPlayer struct {
	SteamID                  string `json:"steamid"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	ProfileState             int    `json:"profilestate"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	TimeCreated              int64  `json:"timecreated"`
	RealName                 string `json:"realname"`
	LocCountryCode           string `json:"loccountrycode"`
}

type steamSummariesResponse struct {
	Response struct {
		Players []steamPlayer `json:"players"`
	} `json:"response"`
}

// SteamVerifier resolves vanity names, profile URLs or SteamID64s with the Steam Web API
type SteamVerifier struct {
	http    *resty.Client
	apiKey  string
	baseURL string
}

// NewSteamVerifier creates a Steam verifier
func NewSteamVerifier(client *resty.Client, apiKey string) *SteamVerifier {
	return &SteamVerifier{http: client, apiKey: apiKey, baseURL: SteamWebAPIURL}
}

// WithBaseURL points the verifier at another endpoint, used by tests
func (v *SteamVerifier) WithBaseURL(baseURL string) *SteamVerifier {
	v.baseURL = baseURL
	return v
}

// Verify returns a *domain.SteamAccount
func (v *SteamVerifier) Verify(ctx context.Context, input string) (domain.Account, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, domain.ErrAccountNotFound
	}

	id64, customURL, err := v.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &steamSummariesResponse{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"key": v.apiKey, "steamids": id64}).
		SetResult(result).
		Get(v.baseURL + "/ISteamUser/GetPlayerSummaries/v2/")
	if err != nil {
		return nil, fmt.Errorf(ErrContextLookup, domain.PlatformSteam, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf(ErrContextStatusCode, domain.PlatformSteam, resp.StatusCode())
	}
	if len(result.Response.Players) == 0 {
		return nil, domain.ErrAccountNotFound
	}

	p := result.Response.Players[0]
	steamID, steamID3, err := SteamIDs(p.SteamID)
	if err != nil {
		return nil, fmt.Errorf(ErrContextLookup, domain.PlatformSteam, err)
	}

	return &domain.SteamAccount{
		ID:             p.SteamID,
		SteamID:        steamID,
		SteamID3:       steamID3,
		CustomURL:      customURL,
		Profile:        p.ProfileURL,
		ProfileState:   p.CommunityVisibilityState,
		ProfileCreated: p.TimeCreated,
		Name:           p.PersonaName,
		RealName:       p.RealName,
		Location:       p.LocCountryCode,
	}, nil
}

// resolve turns the user's input into a SteamID64, returning the vanity name when one was used
func (v *SteamVerifier) resolve(ctx context.Context, input string) (string, string, error) {
	if m := steamProfileURL.FindStringSubmatch(input); m != nil {
		input = m[1]
	}
	if steamID64Pattern.MatchString(input) {
		return input, "", nil
	}

	vanity := input
	if m := steamVanityURL.FindStringSubmatch(input); m != nil {
		vanity = m[1]
	}

	result := &steamVanityResponse{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"key": v.apiKey, "vanityurl": vanity}).
		SetResult(result).
		Get(v.baseURL + "/ISteamUser/ResolveVanityURL/v1/")
	if err != nil {
		return "", "", fmt.Errorf(ErrContextLookup, domain.PlatformSteam, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", "", fmt.Errorf(ErrContextStatusCode, domain.PlatformSteam, resp.StatusCode())
	}
	if result.Response.Success == SteamVanityNoMatch || result.Response.SteamID == "" {
		return "", "", domain.ErrAccountNotFound
	}
	return result.Response.SteamID, vanity, nil
}

// SteamIDs derives the legacy STEAM_0:Y:Z and [U:1:N] forms from a SteamID64
func SteamIDs(id64 string) (string, string, error) {
	n, err := strconv.ParseUint(id64, 10, 64)
	if err != nil {
		return "", "", err
	}
	if n < SteamID64Base {
		return "", "", fmt.Errorf("steam id %s out of range", id64)
	}
	accountID := n - SteamID64Base
	return fmt.Sprintf("STEAM_0:%d:%d", accountID&1, accountID>>1),
		fmt.Sprintf("[U:1:%d]", accountID), nil
}
