package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
)

func TestHandleLink(t *testing.T) {
	InitValidator()

	caller := &domain.User{ID: "user-1", Discord: &domain.DiscordAccount{ID: "42", Username: "buzz"}}
	discordOrigin := domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "buzz", ID: "42"}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockUserService, *MockLinkingService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "Discord", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "minecraft", Username: "Steve"},
			},
			setupMock: func(u *MockUserService, l *MockLinkingService) {
				u.On("GetOrCreate", mock.Anything, discordOrigin).Return(caller, nil)
				l.On("LinkAccount", mock.Anything, discordOrigin,
					domain.PlatformInfo{Platform: "minecraft", Username: "Steve"}, caller).
					Return(linking.LinkResult{Success: true, Data: "Your Minecraft Java account has been linked"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"data":"Your Minecraft Java account has been linked"`,
		},
		{
			name: "Already Linked",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "discord", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "minecraft", Username: "Steve"},
			},
			setupMock: func(u *MockUserService, l *MockLinkingService) {
				u.On("GetOrCreate", mock.Anything, discordOrigin).Return(caller, nil)
				l.On("LinkAccount", mock.Anything, mock.Anything, mock.Anything, caller).
					Return(linking.LinkResult{Error: "This Minecraft account has already been linked", Kind: linking.KindAlreadyLinked})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"kind":"already_linked"`,
		},
		{
			name: "No Pending Link",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "discord", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "twitch", Username: "buzz"},
			},
			setupMock: func(u *MockUserService, l *MockLinkingService) {
				u.On("GetOrCreate", mock.Anything, discordOrigin).Return(caller, nil)
				l.On("LinkAccount", mock.Anything, mock.Anything, mock.Anything, caller).
					Return(linking.LinkResult{Error: "none", Kind: linking.KindNoPendingLink})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"kind":"no_pending_link"`,
		},
		{
			name: "Timeout",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "discord", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "steam", Username: "gaben"},
			},
			setupMock: func(u *MockUserService, l *MockLinkingService) {
				u.On("GetOrCreate", mock.Anything, discordOrigin).Return(caller, nil)
				l.On("LinkAccount", mock.Anything, mock.Anything, mock.Anything, caller).
					Return(linking.LinkResult{Error: linking.ErrMsgTimeout, Kind: linking.KindTimeout})
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   linking.ErrMsgTimeout,
		},
		{
			name: "Caller Resolution Fails",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "discord", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "youtube", Username: "buzz"},
			},
			setupMock: func(u *MockUserService, l *MockLinkingService) {
				u.On("GetOrCreate", mock.Anything, discordOrigin).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"kind":"internal_error"`,
		},
		{
			name: "Unknown Origin Platform",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "myspace", Username: "buzz", ID: "42"},
				Target: LinkTarget{Platform: "minecraft", Username: "Steve"},
			},
			setupMock:      func(u *MockUserService, l *MockLinkingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"origin.platform":"Invalid platform"`,
		},
		{
			name: "Missing Origin ID",
			requestBody: LinkRequest{
				Origin: LinkOrigin{Platform: "twitch", Username: "buzz"},
				Target: LinkTarget{Platform: "minecraft", Username: "Steve"},
			},
			setupMock:      func(u *MockUserService, l *MockLinkingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"origin.id":"This field is required"`,
		},
		{
			name:           "Malformed Body",
			requestBody:    "{not json",
			setupMock:      func(u *MockUserService, l *MockLinkingService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserService{}
			linker := &MockLinkingService{}
			tt.setupMock(users, linker)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/link", bytes.NewBuffer(body))
			w := httptest.NewRecorder()

			NewLinkHandlers(users, linker).HandleLink().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			users.AssertExpectations(t)
			linker.AssertExpectations(t)
		})
	}
}

func TestHandleLinkStatus(t *testing.T) {
	u := &domain.User{ID: "user-1", Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}}

	t.Run("Success", func(t *testing.T) {
		users := &MockUserService{}
		linker := &MockLinkingService{}
		users.On("FindByPlatformID", mock.Anything, "twitch", "tw-1").Return(u, nil)
		linker.On("Status", mock.Anything, u).Return(&linking.LinkStatus{
			UserID:          "user-1",
			LinkedPlatforms: []string{"twitch"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/link/status?platform=Twitch&platform_id=tw-1", nil)
		w := httptest.NewRecorder()
		NewLinkHandlers(users, linker).HandleStatus().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got linking.LinkStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []string{"twitch"}, got.LinkedPlatforms)
		assert.Nil(t, got.Pending)
	})

	t.Run("Unknown Identity", func(t *testing.T) {
		users := &MockUserService{}
		users.On("FindByPlatformID", mock.Anything, "discord", "404").Return(nil, domain.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/link/status?platform=discord&platform_id=404", nil)
		w := httptest.NewRecorder()
		NewLinkHandlers(users, &MockLinkingService{}).HandleStatus().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgUserNotFoundError)
	})

	t.Run("Missing Query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/link/status?platform=discord", nil)
		w := httptest.NewRecorder()
		NewLinkHandlers(&MockUserService{}, &MockLinkingService{}).HandleStatus().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing platform_id query parameter")
	})
}

func TestLinkStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, linkStatusCode(linking.KindInvalidUsername))
	assert.Equal(t, http.StatusConflict, linkStatusCode(linking.KindAlreadyLinked))
	assert.Equal(t, http.StatusNotFound, linkStatusCode(linking.KindNoPendingLink))
	assert.Equal(t, http.StatusGatewayTimeout, linkStatusCode(linking.KindTimeout))
	assert.Equal(t, http.StatusInternalServerError, linkStatusCode(linking.KindLinkFailed))
	assert.Equal(t, http.StatusInternalServerError, linkStatusCode(linking.KindInternal))
}
