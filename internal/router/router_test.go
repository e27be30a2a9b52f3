package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/provider"
	"github.com/shopfinity/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSystemToken = "sys-token"

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

type cartPayload struct {
	Lines []struct {
		Key       string `json:"key"`
		LineID    uint   `json:"line_id"`
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"lines"`
	TotalCount int    `json:"total_count"`
	Subtotal   string `json:"subtotal"`
	State      string `json:"state"`
	Backend    string `json:"backend"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
	device *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	cfg.Redis.Enabled = false
	cfg.Queue.Enabled = false
	cfg.Security.SystemToken = testSystemToken

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	store := storage.NewManager(storage.MemoryOpener(), cfg.Storage.PublicBaseURL, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = store.Close() })
	container := provider.NewContainerWith(cfg, provider.Options{
		DB:        db,
		Storage:   store,
		CartSlots: cart.NewMemorySlots(),
	})
	return &testServer{t: t, engine: SetupRouter(cfg, container), db: db}
}

func (s *testServer) do(method, path string, body interface{}, token string, headers map[string]string) (*httptest.ResponseRecorder, apiEnvelope) {
	s.t.Helper()
	var reader *bytes.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case *multipartBody:
		reader = bytes.NewReader(b.buf.Bytes())
		contentType = b.contentType
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if s.device != nil {
		req.AddCookie(s.device)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "shopfinity_device" {
			s.device = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
		}
	}

	var env apiEnvelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode envelope failed: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func (s *testServer) mustOK(method, path string, body interface{}, token string, dest interface{}) apiEnvelope {
	s.t.Helper()
	_, env := s.do(method, path, body, token, nil)
	if env.StatusCode != 0 {
		s.t.Fatalf("%s %s: status_code=%d msg=%s", method, path, env.StatusCode, env.Msg)
	}
	if dest != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			s.t.Fatalf("%s %s: decode data failed: %v", method, path, err)
		}
	}
	return env
}

func (s *testServer) system(path string) apiEnvelope {
	s.t.Helper()
	_, env := s.do(http.MethodPost, path, nil, "", map[string]string{systemTokenHeader: testSystemToken})
	return env
}

type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID uint `json:"id"`
	} `json:"user"`
	Cart cartPayload `json:"cart"`
}

type multipartBody struct {
	buf         bytes.Buffer
	contentType string
}

func pngImages(t *testing.T, names ...string) *multipartBody {
	t.Helper()
	body := &multipartBody{}
	writer := multipart.NewWriter(&body.buf)
	for _, name := range names {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		if err := png.Encode(part, img); err != nil {
			t.Fatalf("encode png failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart failed: %v", err)
	}
	body.contentType = writer.FormDataContentType()
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/health", nil, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("health should report redis disabled, got %s", w.Body.String())
	}
}

func TestSystemEndpointsRequireToken(t *testing.T) {
	s := newTestServer(t)
	_, env := s.do(http.MethodPost, "/api/v1/system/seed-categories", nil, "", nil)
	if env.StatusCode != 401 {
		t.Fatalf("missing system token should be rejected, got %d", env.StatusCode)
	}

	var first, second struct {
		Seeded   bool `json:"seeded"`
		Inserted int  `json:"inserted"`
	}
	env = s.system("/api/v1/system/seed-categories")
	if err := json.Unmarshal(env.Data, &first); err != nil || !first.Seeded || first.Inserted == 0 {
		t.Fatalf("first seed should insert categories: %+v err=%v", first, err)
	}
	env = s.system("/api/v1/system/seed-categories")
	if err := json.Unmarshal(env.Data, &second); err != nil || second.Seeded {
		t.Fatalf("second seed should be a no-op: %+v err=%v", second, err)
	}

	var outcome struct {
		Outcome string `json:"outcome"`
	}
	env = s.system("/api/v1/system/init-storage")
	if err := json.Unmarshal(env.Data, &outcome); err != nil || outcome.Outcome != string(storage.OutcomeCreated) {
		t.Fatalf("first init-storage should create bucket: %+v err=%v", outcome, err)
	}
	env = s.system("/api/v1/system/init-storage")
	if err := json.Unmarshal(env.Data, &outcome); err != nil || outcome.Outcome != string(storage.OutcomeAlreadyConfigured) {
		t.Fatalf("second init-storage should be already configured: %+v err=%v", outcome, err)
	}
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)
	s.system("/api/v1/system/seed-categories")
	s.system("/api/v1/system/init-storage")

	var categories []models.Category
	s.mustOK(http.MethodGet, "/api/v1/public/categories", nil, "", &categories)
	if len(categories) == 0 {
		t.Fatalf("categories should be seeded")
	}

	// 卖家发布商品并上传图片
	var seller authPayload
	s.mustOK(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "seller@example.com", "password": "secret123", "full_name": "Sam Seller",
	}, "", &seller)
	var listing models.Product
	s.mustOK(http.MethodPost, "/api/v1/listings", gin.H{
		"category_id": categories[0].ID,
		"title":       "Vintage Camera!",
		"price":       "120.00",
		"condition":   "good",
	}, seller.Token, &listing)
	if listing.ID == 0 || listing.SellerID != seller.User.ID {
		t.Fatalf("unexpected listing: %+v", listing)
	}

	var uploaded struct {
		Images []models.ProductImage `json:"images"`
	}
	s.mustOK(http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/images", listing.ID), pngImages(t, "a.png", "b.png"), seller.Token, &uploaded)
	if len(uploaded.Images) != 2 || !uploaded.Images[0].IsPrimary || uploaded.Images[1].IsPrimary {
		t.Fatalf("unexpected uploaded images: %+v", uploaded.Images)
	}
	w, _ := s.do(http.MethodGet, uploaded.Images[0].URL, nil, "", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("uploaded image should be served, status=%d type=%s", w.Code, w.Header().Get("Content-Type"))
	}

	var products []struct {
		ID           uint   `json:"id"`
		PrimaryImage string `json:"primary_image"`
	}
	env := s.mustOK(http.MethodGet, "/api/v1/public/products?condition=good&search=camera", nil, "", &products)
	if env.Pagination.Total != 1 || len(products) != 1 || products[0].PrimaryImage != uploaded.Images[0].URL {
		t.Fatalf("unexpected product list: %+v total=%d", products, env.Pagination.Total)
	}
	s.mustOK(http.MethodGet, "/api/v1/public/products/"+listing.Slug, nil, "", nil)

	// 换一台设备作为买家，游客购物车写入本地槽位
	s.device = nil
	productID := fmt.Sprintf("%d", listing.ID)
	var guestCart cartPayload
	s.mustOK(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": listing.ID, "quantity": 1}, "", &guestCart)
	if guestCart.Backend != string(cart.BackendLocal) || guestCart.TotalCount != 1 {
		t.Fatalf("guest cart should be local with one item: %+v", guestCart)
	}
	if s.device == nil {
		t.Fatalf("device cookie should be issued")
	}
	s.mustOK(http.MethodGet, "/api/v1/cart", nil, "", &guestCart)
	if len(guestCart.Lines) != 1 || guestCart.Lines[0].Key != productID {
		t.Fatalf("guest cart should persist across requests: %+v", guestCart)
	}

	// 注册后切换到服务端购物车，游客内容不合并
	var buyer authPayload
	s.mustOK(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "buyer@example.com", "password": "secret123", "full_name": "Bea Buyer",
	}, "", &buyer)
	if buyer.Cart.Backend != string(cart.BackendServer) || buyer.Cart.TotalCount != 0 {
		t.Fatalf("signed-in cart should be the empty server cart: %+v", buyer.Cart)
	}

	var serverCart cartPayload
	s.mustOK(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": productID, "quantity": 2}, buyer.Token, &serverCart)
	if serverCart.Backend != string(cart.BackendServer) || serverCart.TotalCount != 2 || serverCart.Subtotal != "240.00" {
		t.Fatalf("unexpected server cart: %+v", serverCart)
	}
	serverLine := serverCart.Lines[0]
	if serverLine.LineID == 0 || serverLine.Key != strconv.FormatUint(uint64(serverLine.LineID), 10) {
		t.Fatalf("server line key should be the line id: %+v", serverLine)
	}
	lineKey := serverLine.Key

	_, env = s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": productID, "quantity": 0}, buyer.Token, nil)
	if env.StatusCode != 0 {
		t.Fatalf("quantity 0 on add defaults to 1, got %d %s", env.StatusCode, env.Msg)
	}
	_, env = s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": productID, "quantity": cart.MaxLineQuantity}, buyer.Token, nil)
	if env.StatusCode != 400 {
		t.Fatalf("add past the line limit should be rejected, got %d", env.StatusCode)
	}
	s.mustOK(http.MethodPut, "/api/v1/cart/items/"+lineKey, gin.H{"quantity": 2}, buyer.Token, &serverCart)
	if serverCart.TotalCount != 2 {
		t.Fatalf("update quantity should overwrite: %+v", serverCart)
	}

	// 退出后回到设备的游客购物车，旧 Token 失效
	var logout struct {
		Cart cartPayload `json:"cart"`
	}
	s.mustOK(http.MethodPost, "/api/v1/me/logout", nil, buyer.Token, &logout)
	if logout.Cart.Backend != string(cart.BackendLocal) || logout.Cart.TotalCount != 1 {
		t.Fatalf("logout should restore the guest cart: %+v", logout.Cart)
	}
	_, env = s.do(http.MethodGet, "/api/v1/me", nil, buyer.Token, nil)
	if env.StatusCode != 401 {
		t.Fatalf("revoked token should be rejected, got %d", env.StatusCode)
	}

	var login authPayload
	s.mustOK(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "Buyer@Example.com", "password": "secret123"}, "", &login)
	if login.Cart.Backend != string(cart.BackendServer) || login.Cart.TotalCount != 2 {
		t.Fatalf("login should load the server cart: %+v", login.Cart)
	}

	// 游客结账被拒绝
	s.device = nil
	_, env = s.do(http.MethodPost, "/api/v1/checkout", gin.H{}, "", nil)
	if env.StatusCode != 401 {
		t.Fatalf("guest checkout should be unauthorized, got %d", env.StatusCode)
	}
	_, env = s.do(http.MethodPost, "/api/v1/checkout", gin.H{"name": "Bea"}, login.Token, nil)
	if env.StatusCode != 400 {
		t.Fatalf("incomplete shipping should be rejected, got %d", env.StatusCode)
	}

	// 资料预填后下单，队列关闭时同步完成模拟支付
	s.mustOK(http.MethodPut, "/api/v1/me/profile", gin.H{
		"phone": "555-0100", "address": "1 Main St", "city": "Springfield", "country": "US", "postal_code": "12345",
	}, login.Token, nil)
	var order models.Order
	s.mustOK(http.MethodPost, "/api/v1/checkout", gin.H{}, login.Token, &order)
	if order.Status != "paid" || order.TotalAmount.String() != "250.00" || order.ShippingName != "Bea Buyer" {
		t.Fatalf("unexpected order: status=%s total=%s name=%s", order.Status, order.TotalAmount.String(), order.ShippingName)
	}

	var orders []models.Order
	env = s.mustOK(http.MethodGet, "/api/v1/orders", nil, login.Token, &orders)
	if env.Pagination.Total != 1 || len(orders) != 1 {
		t.Fatalf("order list should contain the new order: total=%d", env.Pagination.Total)
	}
	s.mustOK(http.MethodGet, "/api/v1/orders/"+order.OrderNo, nil, login.Token, nil)
	_, env = s.do(http.MethodGet, "/api/v1/orders/"+order.OrderNo, nil, seller.Token, nil)
	if env.StatusCode != 404 {
		t.Fatalf("other users must not see the order, got %d", env.StatusCode)
	}

	var after cartPayload
	s.mustOK(http.MethodGet, "/api/v1/cart", nil, login.Token, &after)
	if after.TotalCount != 0 || len(after.Lines) != 0 {
		t.Fatalf("cart should be cleared after checkout: %+v", after)
	}
	_, env = s.do(http.MethodPost, "/api/v1/checkout", gin.H{}, login.Token, nil)
	if env.StatusCode != 400 {
		t.Fatalf("empty cart checkout should fail, got %d", env.StatusCode)
	}
}

func TestListingImagesRejectedForOtherSeller(t *testing.T) {
	s := newTestServer(t)
	s.system("/api/v1/system/seed-categories")
	s.system("/api/v1/system/init-storage")

	var categories []models.Category
	s.mustOK(http.MethodGet, "/api/v1/public/categories", nil, "", &categories)
	var owner, other authPayload
	s.mustOK(http.MethodPost, "/api/v1/auth/register", gin.H{"email": "owner@example.com", "password": "secret123", "full_name": "Owner"}, "", &owner)
	s.mustOK(http.MethodPost, "/api/v1/auth/register", gin.H{"email": "other@example.com", "password": "secret123", "full_name": "Other"}, "", &other)

	var listing models.Product
	s.mustOK(http.MethodPost, "/api/v1/listings", gin.H{"category_id": categories[0].ID, "title": "Desk", "price": 40}, owner.Token, &listing)

	_, env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/images", listing.ID), pngImages(t, "x.png"), other.Token, nil)
	if env.StatusCode != 403 {
		t.Fatalf("other seller upload should be forbidden, got %d", env.StatusCode)
	}
	_, env = s.do(http.MethodPost, "/api/v1/listings", gin.H{"category_id": categories[0].ID, "title": "Free", "price": "0"}, owner.Token, nil)
	if env.StatusCode != 400 {
		t.Fatalf("non-positive price should be rejected, got %d", env.StatusCode)
	}
}
