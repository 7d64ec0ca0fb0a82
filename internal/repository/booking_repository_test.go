package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/event-ticketing/internal/model"
)

func newBookingMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	seats := NewSeatRepo(db)
	return NewBookingRepo(db, seats), mock
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		CustomerName:  "Test User",
		Phone:         "01011112222",
		Tier:          "vip",
		Seats:         []model.SeatRef{{RowLabel: "A", SeatNumber: 1}, {RowLabel: "A", SeatNumber: 2}},
		PaymentMethod: "vodafone_cash",
	}
}

func expectClaim(mock sqlmock.Sqlmock, row string, num uint32, seatID int64) {
	mock.ExpectExec("UPDATE seats SET is_available = 0").
		WithArgs("vip", row, num).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM seats").
		WithArgs("vip", row, num).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(seatID))
}

func TestCreateBooking(t *testing.T) {
	repo, mock := newBookingMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectClaim(mock, "A", 1, 11)
	expectClaim(mock, "A", 2, 12)
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT created_at, updated_at FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	b, err := repo.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Regexp(t, `^BK-`, b.ID)
	// One claim per requested seat, and the derived fields follow.
	assert.Equal(t, uint32(2), b.SeatCount)
	assert.Equal(t, uint32(300000), b.TotalCents) // 2 x 150000 (vip)
	assert.Equal(t, model.PaymentPending, b.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingClaimsInRowNumberOrder(t *testing.T) {
	repo, mock := newBookingMock(t)
	now := time.Now().UTC()

	// Seats arrive in request order; claims must happen sorted by row
	// then number so concurrent transactions lock rows in one sequence.
	in := validInput()
	in.Seats = []model.SeatRef{
		{RowLabel: "B", SeatNumber: 3},
		{RowLabel: "A", SeatNumber: 2},
		{RowLabel: "A", SeatNumber: 1},
	}

	mock.ExpectBegin()
	expectClaim(mock, "A", 1, 11)
	expectClaim(mock, "A", 2, 12)
	expectClaim(mock, "B", 3, 21)
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(sqlmock.AnyArg(), 11, "A", 1, sqlmock.AnyArg(), 12, "A", 2, sqlmock.AnyArg(), 21, "B", 3).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT created_at, updated_at FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	b, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), b.SeatCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatTakenRollsBack(t *testing.T) {
	repo, mock := newBookingMock(t)

	mock.ExpectBegin()
	expectClaim(mock, "A", 1, 11)
	// Second claim loses the race: zero rows affected, seat exists.
	mock.ExpectExec("UPDATE seats SET is_available = 0").
		WithArgs("vip", "A", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM seats").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	// No booking or claim insert was attempted after the failed claim.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsSeatOutsideLayout(t *testing.T) {
	repo, _ := newBookingMock(t)
	in := validInput()
	in.Seats = []model.SeatRef{{RowLabel: "Z", SeatNumber: 40}}
	_, err := repo.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrSeatOutOfLayout)

	in = validInput()
	in.Tier = "balcony"
	_, err = repo.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrSeatOutOfLayout)
}

func TestCreateBookingRejectsEmptySeats(t *testing.T) {
	repo, _ := newBookingMock(t)
	in := validInput()
	in.Seats = nil
	_, err := repo.Create(context.Background(), in)
	assert.Error(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newBookingMock(t)
	mock.ExpectQuery("FROM bookings WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.GetByID(context.Background(), "BK-NOPE-0000")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByIDWithSeats(t *testing.T) {
	repo, mock := newBookingMock(t)
	now := time.Now().UTC()
	bookingCols := []string{"id", "customer_name", "phone", "email", "tier", "seat_count", "total_cents",
		"payment_method", "payment_status", "receipt_ref", "created_at", "updated_at"}
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs("BK-X-0001").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("BK-X-0001", "Test User", "01011112222", nil, "vip", 1, 150000,
				"vodafone_cash", "pending", nil, now, now))
	mock.ExpectQuery("FROM booking_seats").
		WithArgs("BK-X-0001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "seat_id", "row_label", "seat_number", "created_at"}).
			AddRow(1, "BK-X-0001", 11, "A", 1, now))

	b, seats, err := repo.GetByID(context.Background(), "BK-X-0001")
	require.NoError(t, err)
	assert.Equal(t, "BK-X-0001", b.ID)
	assert.Nil(t, b.Email)
	require.Len(t, seats, 1)
	assert.Equal(t, "A", seats[0].RowLabel)
	assert.Equal(t, int(b.SeatCount), len(seats))
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo, mock := newBookingMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(model.PaymentConfirmed, "BK-X-0001", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePaymentStatus(context.Background(), "BK-X-0001", model.PaymentConfirmed)
	assert.NoError(t, err)
}

func TestUpdatePaymentStatusAlreadyReviewed(t *testing.T) {
	repo, mock := newBookingMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("confirmed"))

	err := repo.UpdatePaymentStatus(context.Background(), "BK-X-0001", model.PaymentFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdatePaymentStatusUnknownBooking(t *testing.T) {
	repo, mock := newBookingMock(t)
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}))

	err := repo.UpdatePaymentStatus(context.Background(), "BK-NOPE-0000", model.PaymentFailed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
