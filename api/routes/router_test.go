package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petbazaar/petbazaar-backend/internal/cart"
	"github.com/petbazaar/petbazaar-backend/internal/catalog"
	"github.com/petbazaar/petbazaar-backend/internal/checkout"
	"github.com/petbazaar/petbazaar-backend/internal/orders"
	"github.com/petbazaar/petbazaar-backend/internal/wishlist"
	pkgAuth "github.com/petbazaar/petbazaar-backend/pkg/auth"
	"github.com/petbazaar/petbazaar-backend/pkg/config"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/logger"
	"github.com/petbazaar/petbazaar-backend/pkg/money"
	"github.com/petbazaar/petbazaar-backend/pkg/types"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type memSnapshots struct {
	mu   sync.Mutex
	data map[uuid.UUID][]byte
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: map[uuid.UUID][]byte{}}
}

func (m *memSnapshots) Load(_ context.Context, ownerID uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[ownerID], nil
}

func (m *memSnapshots) Save(_ context.Context, ownerID uuid.UUID, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ownerID] = payload
	return nil
}

func (m *memSnapshots) Delete(_ context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ownerID)
	return nil
}

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context, catalog.ListProductsInput) (*catalog.ProductPage, error) {
	return &catalog.ProductPage{Items: []catalog.ProductDTO{}}, nil
}

func (stubCatalog) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalog) ListPets(context.Context, catalog.ListPetsInput) (*catalog.PetPage, error) {
	return &catalog.PetPage{Items: []catalog.PetDTO{}}, nil
}

func (stubCatalog) GetPet(context.Context, uuid.UUID) (*catalog.PetDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
}

func (stubCatalog) CartLine(context.Context, enums.ItemKind, uuid.UUID) (cart.LineItem, error) {
	return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

func (stubCatalog) AvailabilityFor(context.Context, cart.Snapshot) (cart.Availability, error) {
	return cart.Availability{}, nil
}

type stubCheckout struct{}

func (stubCheckout) Start(context.Context, uuid.UUID) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "cart is empty")
}

func (stubCheckout) Current(context.Context, uuid.UUID) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
}

func (stubCheckout) SubmitShipping(context.Context, uuid.UUID, checkout.ShippingInput) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
}

func (stubCheckout) SelectPayment(context.Context, uuid.UUID, checkout.PaymentInput) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
}

func (stubCheckout) Back(context.Context, uuid.UUID) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
}

func (stubCheckout) Confirm(context.Context, uuid.UUID, checkout.ConfirmInput) (*checkout.SessionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
}

type stubOrders struct{}

func (stubOrders) Create(context.Context, orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (stubOrders) AttachTransaction(context.Context, uuid.UUID, uuid.UUID, enums.PaymentMethod, string) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrders) UpdateAddresses(context.Context, uuid.UUID, uuid.UUID, types.Address, types.Address) error {
	return nil
}

func (stubOrders) ReplaceLines(context.Context, uuid.UUID, uuid.UUID, orders.ReplaceLinesInput) error {
	return nil
}

func (stubOrders) Confirm(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrders) Get(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrders) List(context.Context, uuid.UUID, orders.ListOrdersInput) (*orders.OrderPage, error) {
	return &orders.OrderPage{Items: []orders.OrderDTO{}}, nil
}

func (stubOrders) ExpireAbandoned(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

type stubWishlist struct{}

func (stubWishlist) Add(context.Context, uuid.UUID, enums.ItemKind, uuid.UUID) error {
	return nil
}

func (stubWishlist) Remove(context.Context, uuid.UUID, enums.ItemKind, uuid.UUID) error {
	return nil
}

func (stubWishlist) List(context.Context, uuid.UUID) ([]wishlist.ItemDTO, error) {
	return []wishlist.ItemDTO{}, nil
}

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "petbazaar", ExpirationMinutes: 30}

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	pricing, err := money.NewPricing("0.15", "100", "10")
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	carts, err := cart.NewManager(pricing, newMemSnapshots())
	if err != nil {
		t.Fatalf("cart manager: %v", err)
	}

	handler := NewRouter(
		cfg, logg,
		stubPinger{}, stubPinger{},
		carts,
		stubCatalog{},
		stubCheckout{},
		stubOrders{},
		stubWishlist{},
	)
	return handler, cfg.JWT
}

func mintToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	handler, _ := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCatalogIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartFetchWithToken(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(body.Data.Items))
	}
}

func TestReadyFailsWhenDependencyIsDown(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "petbazaar", ExpirationMinutes: 30}

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	pricing, err := money.NewPricing("0.15", "100", "10")
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	carts, err := cart.NewManager(pricing, newMemSnapshots())
	if err != nil {
		t.Fatalf("cart manager: %v", err)
	}

	handler := NewRouter(
		cfg, logg,
		stubPinger{err: context.DeadlineExceeded}, stubPinger{},
		carts,
		stubCatalog{},
		stubCheckout{},
		stubOrders{},
		stubWishlist{},
	)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
