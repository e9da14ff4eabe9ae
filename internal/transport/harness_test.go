package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/middleware"
	"shopfront/internal/repository/memory"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testCookie     = "token"
	testAdminEmail = "admin@example.com"
)

// testAPI is the full route table over in-memory stores
type testAPI struct {
	t        *testing.T
	router   chi.Router
	tokens   *auth.Tokens
	accounts *memory.AccountRepository
}

type apiOption func(*apiServices)

type apiServices struct {
	orders service.OrderService
}

func withOrderService(orders service.OrderService) apiOption {
	return func(s *apiServices) { s.orders = orders }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	logger := zap.NewNop()

	accounts := memory.NewAccountRepository()
	products := memory.NewProductRepository()
	categories := memory.NewCategoryRepository()
	orders := memory.NewOrderRepository()

	tokens := auth.NewTokens(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, CookieName: testCookie})

	svcs := apiServices{
		orders: service.NewOrderService(accounts, orders, events.NewLogPublisher(logger), logger),
	}
	for _, opt := range opts {
		opt(&svcs)
	}

	router := chi.NewRouter()
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	authMiddleware := middleware.AuthMiddleware(tokens, testCookie, logger)

	users := service.NewUserService(accounts, auth.NewHasher(bcrypt.MinCost), tokens, []string{testAdminEmail})
	NewUserHandler(users, SessionCookie{Name: testCookie, MaxAge: time.Hour}, logger).RegisterRoutes(router, authMiddleware)
	NewAddressHandler(service.NewAddressService(accounts), logger).RegisterRoutes(router, authMiddleware)
	NewCartHandler(service.NewCartService(accounts, products), logger).RegisterRoutes(router, authMiddleware)
	NewOrderHandler(svcs.orders, logger).RegisterRoutes(router, authMiddleware)
	NewCategoryHandler(service.NewCategoryService(categories, products), logger).RegisterRoutes(router, authMiddleware)
	NewProductHandler(service.NewProductService(products, categories), logger).RegisterRoutes(router, authMiddleware)

	return &testAPI{t: t, router: router, tokens: tokens, accounts: accounts}
}

// do sends a JSON request, authenticated with a bearer token when one is given
func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

// signup registers an account through the API and returns its token and id
func (a *testAPI) signup(email, phone string) (string, string) {
	a.t.Helper()

	w := a.do(http.MethodPost, "/user/signup", SignupRequest{
		Name: "Test User", Email: email, Phone: phone, Password: "secret-pw",
	}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var created AccountResponse
	decode(a.t, w, &created)

	w = a.do(http.MethodPost, "/user/login", LoginRequest{Email: email, Password: "secret-pw"}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var login LoginResponse
	decode(a.t, w, &login)
	return login.Token, created.User.ID
}

// seller stores a seller account directly and returns a token for it
func (a *testAPI) seller() string {
	a.t.Helper()

	account := &domain.Account{Name: "Seller", Email: "seller@example.com", Phone: "8000000000", Role: domain.RoleSeller}
	require.NoError(a.t, a.accounts.Create(context.Background(), account))
	token, err := a.tokens.Issue(account)
	require.NoError(a.t, err)
	return token
}

// stock creates a category and an available product in it, returning the product id
func (a *testAPI) stock(sellerToken, category string) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/category/add", CategoryRequest{Category: category}, sellerToken)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var created CategoryResponse
	decode(a.t, w, &created)

	w = a.do(http.MethodPost, "/product/add", CreateProductRequest{
		Title: "Kettle", Price: 30, Description: "steel", CategoryID: created.Category.ID, Images: []string{"k.png"},
	}, sellerToken)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var product ProductResponse
	decode(a.t, w, &product)
	return product.Product.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var response middleware.ErrorResponse
	decode(t, w, &response)
	return response
}
