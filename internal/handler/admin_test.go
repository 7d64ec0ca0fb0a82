package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/repository"
	"github.com/omarhegazy/event-ticketing/internal/utils"
)

func newAdminHandlerMock(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hash, err := utils.HashPassword("review-me", 4) // low cost keeps the test fast
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:     "test-secret",
		AccessTTLMin:  15,
		AdminUser:     "reviewer",
		AdminPassHash: hash,
	}
	bookings := repository.NewBookingRepo(db, repository.NewSeatRepo(db))
	return NewAdminHandler(bookings, cfg), mock
}

func TestAdminLogin(t *testing.T) {
	h, _ := newAdminHandlerMock(t)
	rec, err := doJSON(h.Login, http.MethodPost, "/v1/admin/login",
		`{"username":"reviewer","password":"review-me"}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestAdminLoginWrongCredentials(t *testing.T) {
	h, _ := newAdminHandlerMock(t)

	// The same 401 for a wrong password and a wrong username.
	for _, body := range []string{
		`{"username":"reviewer","password":"guess"}`,
		`{"username":"someone","password":"review-me"}`,
	} {
		rec, err := doJSON(h.Login, http.MethodPost, "/v1/admin/login", body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
	}
}

func TestAdminLoginTokenCarriesRole(t *testing.T) {
	h, _ := newAdminHandlerMock(t)
	rec, err := doJSON(h.Login, http.MethodPost, "/v1/admin/login",
		`{"username":"reviewer","password":"review-me"}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "reviewer", claims["sub"])
}

func TestListBookingsInvalidStatus(t *testing.T) {
	h, _ := newAdminHandlerMock(t)
	rec, err := doJSON(h.ListBookings, http.MethodGet, "/v1/admin/bookings?status=refunded", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookingsFiltered(t *testing.T) {
	h, mock := newAdminHandlerMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM bookings").
		WithArgs(model.PaymentPending, 200).
		WillReturnRows(bookingRows("BK-X-0001", now))

	rec, err := doJSON(h.ListBookings, http.MethodGet, "/v1/admin/bookings?status=pending", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BK-X-0001")
}

func reviewContext(t *testing.T, h *AdminHandler, id, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return rec, h.ReviewPayment(c)
}

func TestReviewPaymentConfirm(t *testing.T) {
	h, mock := newAdminHandlerMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(model.PaymentConfirmed, "BK-X-0001", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := reviewContext(t, h, "BK-X-0001", `{"status":"confirmed"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_status":"confirmed"`)
}

func TestReviewPaymentRejectsUnknownStatus(t *testing.T) {
	h, _ := newAdminHandlerMock(t)
	rec, err := reviewContext(t, h, "BK-X-0001", `{"status":"refunded"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewPaymentAlreadyReviewed(t *testing.T) {
	h, mock := newAdminHandlerMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("failed"))

	rec, err := reviewContext(t, h, "BK-X-0001", `{"status":"confirmed"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already reviewed")
}

func TestReviewPaymentUnknownBooking(t *testing.T) {
	h, mock := newAdminHandlerMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}))

	rec, err := reviewContext(t, h, "BK-NOPE-0000", `{"status":"failed"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
