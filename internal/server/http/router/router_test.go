package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
	"github.com/polkiloo/studiodesk/internal/server/http/handlers"
	"github.com/polkiloo/studiodesk/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/studiodesk/internal/test"
)

func newFacade() *testhelpers.StudioFacadeStub {
	return &testhelpers.StudioFacadeStub{
		AdminFacadeStub: testhelpers.AdminFacadeStub{
			ParseFn: func(token string) (int64, error) {
				if token != "token" {
					return 0, pkgAuth.ErrInvalidToken
				}
				return 1, nil
			},
			OrderFn: func(_ context.Context, id int64) (*model.Order, error) {
				if id == 1 {
					return &model.Order{ID: 1, Status: model.OrderStatusPaid, ProgressStage: model.StageDesign, Progress: 10}, nil
				}
				return nil, domainErrors.ErrNotFound
			},
		},
	}
}

func serve(engine *gin.Engine, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	engine := Setup(newFacade(), testhelpers.DiscardLogger())
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		method  string
		target  string
		body    []byte
		headers map[string]string
		want    int
	}{
		{name: "health", method: http.MethodGet, target: "/api/health", want: http.StatusOK},
		{name: "catalog", method: http.MethodGet, target: "/api/catalog", want: http.StatusOK},
		{name: "create order", method: http.MethodPost, target: "/api/orders", body: []byte(`{"serviceType":"new_website","hostingType":"managed","email":"a@b.co"}`), want: http.StatusCreated},
		{name: "order status", method: http.MethodGet, target: "/api/orders/by-intent/pi_1", want: http.StatusOK},
		{name: "webhook", method: http.MethodPost, target: "/api/payments/webhook", body: []byte("{}"), headers: map[string]string{handlers.SignatureHeader: "valid"}, want: http.StatusOK},
		{name: "webhook forged", method: http.MethodPost, target: "/api/payments/webhook", body: []byte("{}"), headers: map[string]string{handlers.SignatureHeader: "forged"}, want: http.StatusBadRequest},
		{name: "login", method: http.MethodPost, target: "/api/admin/login", body: []byte(`{"login":"admin","password":"pw"}`), want: http.StatusOK},
		{name: "orders without token", method: http.MethodGet, target: "/api/admin/orders", want: http.StatusUnauthorized},
		{name: "orders with token", method: http.MethodGet, target: "/api/admin/orders", headers: map[string]string{"Authorization": "Bearer token"}, want: http.StatusOK},
		{name: "order by id", method: http.MethodGet, target: "/api/admin/orders/1", headers: map[string]string{"Authorization": "Bearer token"}, want: http.StatusOK},
		{name: "order missing", method: http.MethodGet, target: "/api/admin/orders/2", headers: map[string]string{"Authorization": "Bearer token"}, want: http.StatusNotFound},
		{name: "progress without token", method: http.MethodPatch, target: "/api/admin/orders/1/progress", body: []byte(`{"progress":20}`), want: http.StatusUnauthorized},
		{name: "progress with bad token", method: http.MethodPatch, target: "/api/admin/orders/1/progress", body: []byte(`{"progress":20}`), headers: map[string]string{"Authorization": "Bearer other"}, want: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(engine, tc.method, tc.target, tc.body, tc.headers)
			if resp.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
			if resp.Header().Get(middleware.RequestIDHeader) == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
}

func TestSetupCompression(t *testing.T) {
	engine := Setup(newFacade(), testhelpers.DiscardLogger())

	resp := serve(engine, http.MethodGet, "/api/catalog", nil, map[string]string{"Accept-Encoding": "gzip"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoded response")
	}
	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	var catalog map[string]any
	if err := json.NewDecoder(reader).Decode(&catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if catalog["currency"] != "usd" {
		t.Fatalf("unexpected catalog %v", catalog)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(`{"serviceType":"redesign","hostingType":"files_only","email":"a@b.co"}`))
	_ = gz.Close()
	resp = serve(engine, http.MethodPost, "/api/orders", buf.Bytes(), map[string]string{"Content-Encoding": "gzip"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected gzip request to be accepted, got %d", resp.Code)
	}
}

var _ handlers.StudioFacade = (*testhelpers.StudioFacadeStub)(nil)
