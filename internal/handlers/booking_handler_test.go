package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thongnus/TrainTicket-sub000/internal/config"
	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/session"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// bookingFixture wires the search, booking and checkout handlers against a
// scripted upstream server, with every request running inside one logged-in
// session.
type bookingFixture struct {
	router   *gin.Engine
	sess     *session.Session
	upstream *upstreamStub
}

// upstreamStub plays the booking REST API: a fixed search result, a fixed
// seat map, and a programmable checkout response.
type upstreamStub struct {
	seatCalls     int
	checkoutCalls int
	checkoutFn    func(w http.ResponseWriter)
}

func (s *upstreamStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/trips/search", func(w http.ResponseWriter, r *http.Request) {
		writeStubEnvelope(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"departureTrips": []map[string]any{
					{"id": 100, "code": "SE1", "minPrice": 200000, "maxPrice": 352500},
					{"id": 101, "code": "SE3", "minPrice": 150000, "maxPrice": 300000},
				},
			},
			"status": 200,
		})
	})
	mux.HandleFunc("/trips/100/carriages-with-seats", func(w http.ResponseWriter, r *http.Request) {
		s.seatCalls++
		writeStubEnvelope(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"id":   100,
				"code": "SE1",
				"carriages": []map[string]any{
					{
						"id":     10,
						"number": "A1",
						"type":   "soft_seat",
						"seats": []map[string]any{
							{"id": 42, "number": "12", "price": 352500, "status": "active"},
							{"id": 43, "number": "13", "price": 200000, "status": "active"},
						},
					},
				},
			},
			"status": 200,
		})
	})
	mux.HandleFunc("/bookings/checkout", func(w http.ResponseWriter, r *http.Request) {
		s.checkoutCalls++
		s.checkoutFn(w)
	})
	return mux
}

func writeStubEnvelope(w http.ResponseWriter, httpStatus int, env map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(env)
}

func sessionToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "9",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stub := &upstreamStub{
		checkoutFn: func(w http.ResponseWriter) {
			writeStubEnvelope(w, http.StatusOK, map[string]any{
				"data":   map[string]any{"bookingId": 7001, "paymentUrl": "https://pay.example.com/7001"},
				"status": 200,
			})
		},
	}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	client := upstream.NewClient(config.UpstreamConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		RefreshLeeway:  30 * time.Second,
	}, logger)

	store := session.NewStore(time.Hour, logger)
	t.Cleanup(store.Close)

	sess := store.Create()
	sess.Lock()
	sess.Hydrate(&models.AuthResult{
		TokenPair: models.TokenPair{AccessToken: sessionToken(t), RefreshToken: "refresh-1"},
	}, "")
	sess.Unlock()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, sess)
		c.Next()
	})

	searchHandler := NewSearchHandler(client, logger)
	bookingHandler := NewBookingHandler(client, logger)
	checkoutHandler := NewCheckoutHandler(client, logger)

	router.GET("/api/trips/search", searchHandler.SearchTrips)
	router.POST("/api/booking/select", bookingHandler.SelectTrip)
	router.POST("/api/booking/start", bookingHandler.StartDraft)
	router.POST("/api/booking/seat", bookingHandler.SelectSeat)
	router.PUT("/api/booking/passenger", bookingHandler.SetPassenger)
	router.PUT("/api/booking/contact", bookingHandler.SetContact)
	router.POST("/api/booking/promo", bookingHandler.ApplyPromo)
	router.POST("/api/checkout", checkoutHandler.Submit)

	return &bookingFixture{router: router, sess: sess, upstream: stub}
}

func (f *bookingFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

// startDraft walks the fixture through search, trip selection and draft
// creation for one passenger.
func (f *bookingFixture) startDraft(t *testing.T) {
	t.Helper()
	w := f.do(t, http.MethodGet, "/api/trips/search?origin=1&destination=5&date=2026-09-15&passengers=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/booking/select", map[string]any{"tripId": 100})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/booking/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlow_SearchSelectStart(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	assert.Equal(t, 1, f.upstream.seatCalls)
	require.NotNil(t, f.sess.Checkout)
	assert.Equal(t, int64(100), f.sess.Checkout.Outbound.Trip.ID)
	assert.Len(t, f.sess.Checkout.Outbound.Passengers, 1)
}

func TestSearchTrips_ResolvesRouteStationNames(t *testing.T) {
	f := newBookingFixture(t)
	w := f.do(t, http.MethodGet, "/api/trips/search?origin=1&destination=5&date=2026-09-15", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Route struct {
			Origin      string `json:"origin"`
			Destination string `json:"destination"`
		} `json:"route"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Hà Nội", body.Route.Origin)
	assert.Equal(t, "Thanh Hóa", body.Route.Destination)
}

func TestDraftResponse_CarriesSeatLabels(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		SeatLabels struct {
			Outbound []string `json:"outbound"`
		} `json:"seatLabels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Toa A1 - Ghế 12"}, body.SeatLabels.Outbound)
}

func TestSelectTrip_RejectsTripOutsideSearchResults(t *testing.T) {
	f := newBookingFixture(t)
	w := f.do(t, http.MethodGet, "/api/trips/search?origin=1&destination=5&date=2026-09-15", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/booking/select", map[string]any{"tripId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartDraft_RequiresSelection(t *testing.T) {
	f := newBookingFixture(t)
	w := f.do(t, http.MethodPost, "/api/booking/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectSeat_UnavailableSeatIsSilentNoOp(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	f.sess.Lock()
	f.sess.Checkout.Outbound.Trip.Carriages[0].Seats[0].Booked = true
	f.sess.Unlock()

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.sess.Checkout.Outbound.Passengers[0].SeatID)
}

func TestSelectSeat_AllSeatedConflict(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 43})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApplyPromo_ReturnsTotals(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/booking/promo", map[string]any{"code": "WINTER25"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Valid  bool `json:"valid"`
		Totals struct {
			Subtotal       int64 `json:"subtotal"`
			DiscountAmount int64 `json:"discountAmount"`
			Total          int64 `json:"total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Equal(t, int64(352500), body.Totals.Subtotal)
	assert.Equal(t, int64(88125), body.Totals.DiscountAmount)
	assert.Equal(t, int64(264375), body.Totals.Total)
}

func TestSubmit_SuccessEndsDraft(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPut, "/api/booking/passenger", map[string]any{
		"passengerIndex": 0, "name": "Nguyễn Văn An", "identityCard": "012345678901",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"email": "an@example.com", "phone": "0912345678", "paymentMethod": "vnpay",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Outcome struct {
			State      string `json:"state"`
			PaymentURL string `json:"paymentUrl"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Outcome.State)
	assert.Equal(t, "https://pay.example.com/7001", body.Outcome.PaymentURL)
	assert.Nil(t, f.sess.Checkout)
}

func TestSubmit_ValidationErrorsComeBackFieldKeyed(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/checkout", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, f.upstream.checkoutCalls)

	var body struct {
		Outcome struct {
			State        string            `json:"state"`
			FieldErrors  map[string]string `json:"fieldErrors"`
			FirstInvalid string            `json:"firstInvalid"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "idle", body.Outcome.State)
	assert.Contains(t, body.Outcome.FieldErrors, "email")
	assert.Contains(t, body.Outcome.FieldErrors, "seat_0")
	assert.Equal(t, "email", body.Outcome.FirstInvalid)
}

func TestSubmit_ClearedContactFieldOverwritesStaleValue(t *testing.T) {
	f := newBookingFixture(t)
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPut, "/api/booking/passenger", map[string]any{
		"passengerIndex": 0, "name": "Nguyễn Văn An", "identityCard": "012345678901",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPut, "/api/booking/contact", map[string]any{
		"email": "an@example.com", "phone": "0912345678",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The visitor clears the email before submitting; the submission must
	// fail on the empty field instead of reusing the stored value.
	w = f.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"email": "", "phone": "0912345678", "paymentMethod": "vnpay",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, f.upstream.checkoutCalls)

	var body struct {
		Outcome struct {
			State       string            `json:"state"`
			FieldErrors map[string]string `json:"fieldErrors"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "idle", body.Outcome.State)
	assert.Contains(t, body.Outcome.FieldErrors, "email")
	assert.Equal(t, "", f.sess.Checkout.ContactEmail)
}

func TestSubmit_SeatConflictRefetchesSeatMap(t *testing.T) {
	f := newBookingFixture(t)
	f.upstream.checkoutFn = func(w http.ResponseWriter) {
		writeStubEnvelope(w, http.StatusConflict, map[string]any{
			"status":  409,
			"code":    "SEATLOCK",
			"message": "seats no longer available",
			"data":    []int64{42},
		})
	}
	f.startDraft(t)

	w := f.do(t, http.MethodPost, "/api/booking/seat", map[string]any{"carriageId": 10, "seatId": 42})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPut, "/api/booking/passenger", map[string]any{
		"passengerIndex": 0, "name": "Nguyễn Văn An", "identityCard": "012345678901",
	})
	require.Equal(t, http.StatusOK, w.Code)

	seatCallsBefore := f.upstream.seatCalls
	w = f.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"email": "an@example.com", "phone": "0912345678", "paymentMethod": "vnpay",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Outcome struct {
			State         string   `json:"state"`
			Message       string   `json:"message"`
			ConflictSeats []string `json:"conflictSeats"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body.Outcome.State)
	assert.Contains(t, body.Outcome.Message, "Toa A1 - Ghế 12")
	assert.Equal(t, []string{"Toa A1 - Ghế 12"}, body.Outcome.ConflictSeats)

	// The seat map was fetched again and the draft survives for re-selection.
	assert.Equal(t, seatCallsBefore+1, f.upstream.seatCalls)
	require.NotNil(t, f.sess.Checkout)
	assert.Equal(t, 1, f.upstream.checkoutCalls)
}
