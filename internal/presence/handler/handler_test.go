package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"onsite/internal/platform/token"
	"onsite/internal/presence/handler/mocks"
	"onsite/internal/presence/models"
	dErrors "onsite/pkg/domain-errors"
)

const scannerKey = "test-scanner-key"

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, token.NewValidator(scannerKey))
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func scannerToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "scanner-front-door",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(scannerKey))
	require.NoError(t, err)
	return signed
}

func TestHandleFeed(t *testing.T) {
	router, mockService := newTestRouter(t)

	door := "front"
	seen := int64(1767000000)
	mockService.EXPECT().Feed(gomock.Any()).Return(models.Feed{
		Items: []models.Item{{
			ID:            uuid.NewString(),
			Name:          "Dana",
			Schedule:      "9:00 AM - 5:00 PM",
			ScheduleStart: 1766998800,
			Present:       true,
			Door:          &door,
			LastSeen:      &seen,
		}},
		Now: 1767013200,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/display/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var feed models.Feed
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Dana", feed.Items[0].Name)
	assert.Equal(t, int64(1767013200), feed.Now)
}

func TestHandleFeedEmpty(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().Feed(gomock.Any()).Return(models.Feed{Items: []models.Item{}, Now: 1767013200}, nil)

	req := httptest.NewRequest(http.MethodGet, "/display/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"now":1767013200}`, rec.Body.String())
}

func TestHandleFeedStoreFailure(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().Feed(gomock.Any()).Return(models.Feed{}, dErrors.New(dErrors.CodeInternal, "query schedule"))

	req := httptest.NewRequest(http.MethodGet, "/display/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleScan(t *testing.T) {
	router, mockService := newTestRouter(t)

	personID := uuid.New()
	mockService.EXPECT().
		RecordScan(gomock.Any(), personID, "front", time.Unix(1767000000, 0)).
		Return(nil)

	body, _ := json.Marshal(map[string]any{
		"person_id": personID,
		"door":      "front",
		"timestamp": 1767000000,
	})
	req := httptest.NewRequest(http.MethodPost, "/presence/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+scannerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleScanRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/presence/scan", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleScanRejectsBadSignature(t *testing.T) {
	router, _ := newTestRouter(t)

	claims := jwt.MapClaims{"sub": "scanner", "exp": time.Now().Add(time.Minute).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/presence/scan", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleScanBadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/presence/scan", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Authorization", "Bearer "+scannerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScanValidationError(t *testing.T) {
	router, mockService := newTestRouter(t)

	mockService.EXPECT().
		RecordScan(gomock.Any(), uuid.Nil, "", time.Time{}).
		Return(dErrors.New(dErrors.CodeBadRequest, "person id is required"))

	req := httptest.NewRequest(http.MethodPost, "/presence/scan", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+scannerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
