package verifier

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// bedrockName matches Floodgate-style Bedrock names: one or more leading dots
var bedrockName = regexp.MustCompile(`^\.+[^\s]+$`)

// IsBedrockUsername reports whether a Minecraft username denotes a Bedrock player
func IsBedrockUsername(username string) bool {
	return bedrockName.MatchString(username)
}

type mojangProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type geyserXUID struct {
	XUID int64 `json:"xuid"`
}

// MinecraftVerifier resolves Java names with Mojang and Bedrock gamertags with GeyserMC
type MinecraftVerifier struct {
	http      *resty.Client
	mojangURL string
	geyserURL string
}

// NewMinecraftVerifier creates a Minecraft verifier
func NewMinecraftVerifier(client *resty.Client) *MinecraftVerifier {
	return &MinecraftVerifier{http: client, mojangURL: MojangAPIURL, geyserURL: GeyserAPIURL}
}

// WithBaseURLs points the verifier at other endpoints, used by tests
func (v *MinecraftVerifier) WithBaseURLs(mojangURL, geyserURL string) *MinecraftVerifier {
	v.mojangURL = mojangURL
	v.geyserURL = geyserURL
	return v
}

// Verify returns a *domain.MinecraftAccount
func (v *MinecraftVerifier) Verify(ctx context.Context, username string) (domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrAccountNotFound
	}
	if IsBedrockUsername(username) {
		return v.verifyBedrock(ctx, username)
	}
	return v.verifyJava(ctx, username)
}

func (v *MinecraftVerifier) verifyJava(ctx context.Context, username string) (domain.Account, error) {
	profile := &mojangProfile{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetPathParam("name", username).
		SetResult(profile).
		Get(v.mojangURL + "/users/profiles/minecraft/{name}")
	if err != nil {
		return nil, fmt.Errorf(ErrContextLookup, domain.PlatformMinecraft, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound, http.StatusBadRequest:
		return nil, domain.ErrAccountNotFound
	default:
		return nil, fmt.Errorf(ErrContextStatusCode, domain.PlatformMinecraft, resp.StatusCode())
	}
	if profile.ID == "" {
		return nil, domain.ErrAccountNotFound
	}

	id, err := uuid.Parse(profile.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrContextLookup, domain.PlatformMinecraft, err)
	}

	return &domain.MinecraftAccount{
		ID:       id.String(),
		Username: profile.Name,
		Edition:  domain.MinecraftEditionJava,
	}, nil
}

func (v *MinecraftVerifier) verifyBedrock(ctx context.Context, username string) (domain.Account, error) {
	gamertag := strings.TrimLeft(username, ".")

	result := &geyserXUID{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetPathParam("gamertag", gamertag).
		SetResult(result).
		Get(v.geyserURL + "/v2/xbox/xuid/{gamertag}")
	if err != nil {
		return nil, fmt.Errorf(ErrContextLookup, domain.PlatformMinecraft, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, domain.ErrAccountNotFound
	default:
		return nil, fmt.Errorf(ErrContextStatusCode, domain.PlatformMinecraft, resp.StatusCode())
	}
	if result.XUID == 0 {
		return nil, domain.ErrAccountNotFound
	}

	return &domain.MinecraftAccount{
		ID:       FloodgateUUID(result.XUID),
		Username: username,
		Edition:  domain.MinecraftEditionBedrock,
		XUID:     fmt.Sprintf("%d", result.XUID),
	}, nil
}

// FloodgateUUID derives the UUID Floodgate assigns a Bedrock player from their XUID
func FloodgateUUID(xuid int64) string {
	hex := fmt.Sprintf("%016x", uint64(xuid))
	return FloodgatePrefix + hex[:4] + "-" + hex[4:]
}
