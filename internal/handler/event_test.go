package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/event-ticketing/internal/repository"
)

func newEventHandlerMock(t *testing.T) (*EventHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventHandler(repository.NewSeatRepo(db), testConfig()), mock
}

func TestGetEvent(t *testing.T) {
	h, _ := newEventHandlerMock(t)
	rec, err := doJSON(h.GetEvent, http.MethodGet, "/v1/event", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		NameEN string `json:"name_en"`
		NameAR string `json:"name_ar"`
		Tiers  []struct {
			ID       string `json:"id"`
			Capacity int    `json:"capacity"`
		} `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Layali Zaman", resp.NameEN)
	assert.Equal(t, "ليالي زمان", resp.NameAR)
	require.Len(t, resp.Tiers, 2)
	assert.Equal(t, "vip", resp.Tiers[0].ID)
	assert.Equal(t, 23, resp.Tiers[0].Capacity)
	assert.Equal(t, "classic", resp.Tiers[1].ID)
	assert.Equal(t, 254, resp.Tiers[1].Capacity)
}

func tierSeatsContext(tier string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tier")
	c.SetParamValues(tier)
	return c, rec
}

func TestGetTierSeatsUnknownTier(t *testing.T) {
	h, _ := newEventHandlerMock(t)
	c, rec := tierSeatsContext("balcony")
	require.NoError(t, h.GetTierSeats(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTierSeats(t *testing.T) {
	h, mock := newEventHandlerMock(t)
	now := time.Now().UTC()
	available := emptySeatRows().
		AddRow(2, "vip", "A", 2, true, now).
		AddRow(3, "vip", "A", 3, true, now)
	booked := emptySeatRows().AddRow(1, "vip", "A", 1, false, now)
	mock.ExpectQuery("FROM seats").WillReturnRows(available)
	mock.ExpectQuery("FROM seats").WillReturnRows(booked)

	c, rec := tierSeatsContext("vip")
	require.NoError(t, h.GetTierSeats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Available []struct {
			Row    string `json:"row"`
			Number uint32 `json:"number"`
		} `json:"available"`
		Booked    []json.RawMessage `json:"booked"`
		Remaining int               `json:"remaining"`
		MaxSeats  int               `json:"max_seats"`
		Degraded  bool              `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Available, 2)
	assert.Equal(t, "A", resp.Available[0].Row)
	assert.Equal(t, uint32(2), resp.Available[0].Number)
	assert.Len(t, resp.Booked, 1)
	assert.Equal(t, 22, resp.Remaining) // 23 vip seats, one booked
	assert.Equal(t, 10, resp.MaxSeats)
	assert.False(t, resp.Degraded)
}

func TestGetTierSeatsDegradesOnStoreFailure(t *testing.T) {
	h, mock := newEventHandlerMock(t)
	mock.ExpectQuery("FROM seats").WillReturnError(fmt.Errorf("connection refused"))
	mock.ExpectQuery("FROM seats").WillReturnError(fmt.Errorf("connection refused"))

	c, rec := tierSeatsContext("vip")
	require.NoError(t, h.GetTierSeats(c))
	// The page still renders; empty availability plus the degraded flag
	// tells the client the numbers are unknown, not sold out.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Available []json.RawMessage `json:"available"`
		Booked    []json.RawMessage `json:"booked"`
		Remaining int               `json:"remaining"`
		Degraded  bool              `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Available)
	assert.Empty(t, resp.Booked)
	assert.Zero(t, resp.Remaining)
	assert.True(t, resp.Degraded)
}
