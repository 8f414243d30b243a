package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPinger mocks a backing store
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	HandleHealthz().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	t.Run("All Dependencies Up", func(t *testing.T) {
		db := &MockPinger{}
		db.On("Ping", mock.Anything).Return(nil)
		cache := &MockPinger{}
		cache.On("Ping", mock.Anything).Return(nil)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		HandleReadyz(map[string]Pinger{"postgres": db, "redis": cache}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"redis":"ok"`)
		db.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("One Dependency Down", func(t *testing.T) {
		db := &MockPinger{}
		db.On("Ping", mock.Anything).Return(assert.AnError)
		cache := &MockPinger{}
		cache.On("Ping", mock.Anything).Return(nil)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		HandleReadyz(map[string]Pinger{"mongo": db, "redis": cache}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
		assert.Contains(t, w.Body.String(), `"mongo":"unavailable"`)
		assert.Contains(t, w.Body.String(), `"redis":"ok"`)
	})

	t.Run("Ping Timeout", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		HandleReadyz(map[string]Pinger{
			"postgres": PingFunc(func(context.Context) error { return context.DeadlineExceeded }),
		}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("No Dependencies", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		HandleReadyz(nil).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
