package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
)

const (
	testAdminID = "admin-1"
	testUserID  = "user-1"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// DiscordCall is one request the bot made to the Discord API
type DiscordCall struct {
	Method string
	Path   string
	Body   []byte
}

// CapturedEdit is the JSON shape of an interaction response edit
type CapturedEdit struct {
	Content    *string                   `json:"content"`
	Embeds     []*discordgo.MessageEmbed `json:"embeds"`
	Components []json.RawMessage         `json:"components"`
}

// TestContext bundles the mock API backend, the intercepted Discord session and the bot
type TestContext struct {
	Server  *httptest.Server
	Mux     *http.ServeMux
	Session *discordgo.Session
	Bot     *Bot

	DiscordMocks *MockRoundTripper

	mu    sync.Mutex
	calls []DiscordCall
}

// SetupTestContext sets up the test environment:
// 1. Mock Backend API (httptest.Server)
// 2. Mock Discord Session (with intercepted HTTP client)
// 3. Bot wired to both, with testAdminID as the only admin
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	session, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("Failed to create mock session: %v", err)
	}

	tc := &TestContext{
		Server:  server,
		Mux:     mux,
		Session: session,
	}

	tc.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			tc.mu.Lock()
			tc.calls = append(tc.calls, DiscordCall{Method: req.Method, Path: req.URL.Path, Body: body})
			tc.mu.Unlock()

			respBody := "{}"
			if strings.HasSuffix(req.URL.Path, "/commands") {
				respBody = "[]"
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Request:    req,
			}, nil
		},
	}
	session.Client = &http.Client{Transport: tc.DiscordMocks}

	client := apiclient.New(server.URL, "test-api-key").SetTimeout(2 * time.Second).SetRetryCount(0)
	tc.Bot = newBot(session, client, Config{
		AppID:     "app-1",
		ChannelID: "channel-1",
		AdminIDs:  []string{testAdminID},
		Cooldown:  time.Minute,
	})
	RegisterAll(tc.Bot.Registry)

	return tc
}

// Calls returns the Discord API calls made so far
func (tc *TestContext) Calls() []DiscordCall {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]DiscordCall(nil), tc.calls...)
}

// LastEdit decodes the most recent interaction response edit
func (tc *TestContext) LastEdit(t *testing.T) CapturedEdit {
	t.Helper()
	calls := tc.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == http.MethodPatch && strings.HasSuffix(calls[i].Path, "/messages/@original") {
			var edit CapturedEdit
			if err := json.Unmarshal(calls[i].Body, &edit); err != nil {
				t.Fatalf("decode edit: %v", err)
			}
			return edit
		}
	}
	t.Fatal("no interaction response edit captured")
	return CapturedEdit{}
}

// WriteJSON writes a JSON success response from a mock backend handler
func WriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an API error body
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// slashCommand builds a guild slash command interaction for userID
func slashCommand(userID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:     "interaction-1",
		AppID:  "app-1",
		Token:  "token-1",
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID, Username: "buzz"}},
		Data:   discordgo.ApplicationCommandInteractionData{Name: name, Options: options},
	}}
}

// buttonPress builds a button interaction on a message whose embed shows description
func buttonPress(userID, customID, description string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "interaction-2",
		AppID:   "app-1",
		Token:   "token-2",
		Type:    discordgo.InteractionMessageComponent,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID, Username: "buzz"}},
		Message: &discordgo.Message{Embeds: []*discordgo.MessageEmbed{{Description: description}}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func subcommand(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

func group(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: options,
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}
