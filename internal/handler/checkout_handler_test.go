package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/payment"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeProvider struct {
	sessions map[string]*payment.CheckoutSession
	seq      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payment.CheckoutSession{}}
}

func (p *fakeProvider) CreateSession(_ context.Context, items []payment.LineItem, metadata map[string]string) (*payment.CheckoutSession, error) {
	p.seq++
	sess := &payment.CheckoutSession{
		ID:           fmt.Sprintf("cs_test_%d", p.seq),
		ClientSecret: fmt.Sprintf("cs_test_%d_secret", p.seq),
		Metadata:     metadata,
	}
	p.sessions[sess.ID] = sess
	return sess, nil
}

func (p *fakeProvider) RetrieveSession(_ context.Context, id string) (*payment.CheckoutSession, error) {
	sess, ok := p.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session %s", id)
	}
	return sess, nil
}

type checkoutEnv struct {
	e        *echo.Echo
	db       *gorm.DB
	provider *fakeProvider
	h        *CheckoutHandler
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Book{},
		&model.Listing{},
		&model.CartItem{},
		&model.Order{},
		&model.Notification{},
	))

	provider := newFakeProvider()
	svc := service.NewCheckoutService(
		repository.NewCartRepository(db),
		repository.NewOrderRepository(db),
		provider,
		service.NewNotificationService(repository.NewNotificationRepository(db)),
	)
	return &checkoutEnv{
		e:        echo.New(),
		db:       db,
		provider: provider,
		h:        NewCheckoutHandler(svc),
	}
}

func (env *checkoutEnv) doJSON(t *testing.T, method, path, uid string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}
	return rec, c
}

func (env *checkoutEnv) seedCartItem(t *testing.T, buyerUID, title string, price int64) uint64 {
	t.Helper()
	book := model.Book{Title: title, Author: "Test Author"}
	require.NoError(t, env.db.Create(&book).Error)
	listing := model.Listing{
		SellerUID: "seller-1",
		BookID:    book.ID,
		Price:     price,
		Status:    model.ListingStatusAvailable,
	}
	require.NoError(t, env.db.Create(&listing).Error)
	item := model.CartItem{BuyerUID: buyerUID, ListingID: listing.ID, Quantity: 1}
	require.NoError(t, env.db.Create(&item).Error)
	return item.ID
}

func TestBeginCheckoutHandler(t *testing.T) {
	env := newCheckoutEnv(t)
	id := env.seedCartItem(t, "buyer-1", "Kafka on the Shore", 12)

	rec, c := env.doJSON(t, http.MethodPost, "/api/checkout", "buyer-1",
		BeginCheckoutRequest{CartItemIDs: []uint64{id}})
	require.NoError(t, env.h.Begin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BeginCheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.ClientSecret)
	require.Contains(t, env.provider.sessions, resp.SessionID)
}

func TestBeginCheckoutHandlerUnauthenticated(t *testing.T) {
	env := newCheckoutEnv(t)

	rec, c := env.doJSON(t, http.MethodPost, "/api/checkout", "",
		BeginCheckoutRequest{CartItemIDs: []uint64{1}})
	require.NoError(t, env.h.Begin(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBeginCheckoutHandlerForeignItems(t *testing.T) {
	env := newCheckoutEnv(t)
	id := env.seedCartItem(t, "someone-else", "Foundation", 7)

	rec, c := env.doJSON(t, http.MethodPost, "/api/checkout", "buyer-1",
		BeginCheckoutRequest{CartItemIDs: []uint64{id}})
	require.NoError(t, env.h.Begin(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinalizeCheckoutHandler(t *testing.T) {
	env := newCheckoutEnv(t)
	id := env.seedCartItem(t, "buyer-1", "The Left Hand of Darkness", 15)

	rec, c := env.doJSON(t, http.MethodPost, "/api/checkout", "buyer-1",
		BeginCheckoutRequest{CartItemIDs: []uint64{id}})
	require.NoError(t, env.h.Begin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var begin BeginCheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begin))

	// unpaid session is rejected with 409
	rec, c = env.doJSON(t, http.MethodPost, "/api/checkout/finalize", "buyer-1",
		FinalizeCheckoutRequest{SessionID: begin.SessionID})
	require.NoError(t, env.h.Finalize(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	sess := env.provider.sessions[begin.SessionID]
	sess.Paid = true
	sess.PaymentRef = "pay_1"

	rec, c = env.doJSON(t, http.MethodPost, "/api/checkout/finalize", "buyer-1",
		FinalizeCheckoutRequest{SessionID: begin.SessionID})
	require.NoError(t, env.h.Finalize(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var fin FinalizeCheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fin))
	require.True(t, fin.Success)
	require.Equal(t, 1, fin.OrdersCreated)

	var orders int64
	require.NoError(t, env.db.Model(&model.Order{}).Where("buyer_uid = ?", "buyer-1").Count(&orders).Error)
	require.Equal(t, int64(1), orders)
}

func TestFinalizeCheckoutHandlerWrongBuyer(t *testing.T) {
	env := newCheckoutEnv(t)
	id := env.seedCartItem(t, "buyer-1", "Dune", 20)

	rec, c := env.doJSON(t, http.MethodPost, "/api/checkout", "buyer-1",
		BeginCheckoutRequest{CartItemIDs: []uint64{id}})
	require.NoError(t, env.h.Begin(c))

	var begin BeginCheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begin))
	env.provider.sessions[begin.SessionID].Paid = true

	rec, c = env.doJSON(t, http.MethodPost, "/api/checkout/finalize", "buyer-2",
		FinalizeCheckoutRequest{SessionID: begin.SessionID})
	require.NoError(t, env.h.Finalize(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
