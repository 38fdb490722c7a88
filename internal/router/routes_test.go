package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/auth"
	"github.com/octobees/digital-card/api/internal/config"
	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/handler"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
	"github.com/octobees/digital-card/api/internal/service"
)

type stubContacts struct {
	listedFor uuid.UUID
}

func (s *stubContacts) Submit(ctx context.Context, req dto.CreateContactRequest, meta service.SubmissionMeta) (*service.SubmitResult, error) {
	return &service.SubmitResult{Contact: &entity.Contact{ID: uuid.New()}, Sync: &service.SyncResult{Outcome: service.SyncOutcomeDisabled}}, nil
}

func (s *stubContacts) List(ctx context.Context, ownerID uuid.UUID, status string) ([]entity.Contact, error) {
	s.listedFor = ownerID
	return []entity.Contact{}, nil
}

func (s *stubContacts) SyncOwned(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*service.SyncResult, error) {
	return nil, service.ErrContactNotFound
}

func (s *stubContacts) SyncLogs(ctx context.Context, ownerID uuid.UUID, rawContactID string) ([]entity.SyncLog, error) {
	return nil, service.ErrContactNotFound
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, username string) (*service.VCardDocument, error) {
	if username != "ana" {
		return nil, service.ErrProfileNotFound
	}
	return &service.VCardDocument{Content: "BEGIN:VCARD\r\nEND:VCARD", Filename: "ana.vcf"}, nil
}

func (stubRenderer) RenderCompact(ctx context.Context, username string) (string, error) {
	return "BEGIN:VCARD\nEND:VCARD", nil
}

func newTestServer(t *testing.T) (*echo.Echo, *stubContacts, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{RateLimitContacts: config.RateLimitConfig{Requests: 1, Interval: time.Minute}}
	manager := auth.NewJWTManager("test-secret", time.Hour, auth.RoleAuthenticated)
	contacts := &stubContacts{}

	e := echo.New()
	e.IPExtractor = middlewarepkg.IPExtractor(nil)
	Register(e, cfg, manager, Handlers{
		Contacts: handler.NewContactsHandler(contacts),
		VCard:    handler.NewVCardHandler(stubRenderer{}),
		Profile:  handler.NewProfileHandler(nil),
	})
	return e, contacts, manager
}

func TestRegister_PublicRoutes(t *testing.T) {
	e, _, _ := newTestServer(t)

	tests := map[string]struct {
		method     string
		target     string
		expectCode int
	}{
		"health":          {method: http.MethodGet, target: "/healthz", expectCode: http.StatusOK},
		"metrics":         {method: http.MethodGet, target: "/metrics", expectCode: http.StatusOK},
		"vcard download":  {method: http.MethodGet, target: "/c/ana/vcard", expectCode: http.StatusOK},
		"vcard unknown":   {method: http.MethodGet, target: "/c/ghost/vcard", expectCode: http.StatusNotFound},
		"qr payload":      {method: http.MethodGet, target: "/c/ana/vcard/qr", expectCode: http.StatusOK},
		"profile no auth": {method: http.MethodGet, target: "/api/profile", expectCode: http.StatusUnauthorized},
		"list no auth":    {method: http.MethodGet, target: "/api/contacts", expectCode: http.StatusUnauthorized},
		"sync no auth":    {method: http.MethodPost, target: "/api/ghl/sync", expectCode: http.StatusUnauthorized},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d", tt.expectCode, rec.Code)
			}
		})
	}
}

func TestRegister_ContactSubmissionIsRateLimited(t *testing.T) {
	e, _, _ := newTestServer(t)

	submit := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)
		req.RemoteAddr = "198.51.100.20:5000"
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := submit("203.0.113.20"); code != http.StatusCreated {
		t.Fatalf("expected first submission accepted, got %d", code)
	}
	for _, forged := range []string{"203.0.113.20", "203.0.113.21", "192.0.2.99"} {
		if code := submit(forged); code != http.StatusTooManyRequests {
			t.Fatalf("expected submission with X-Forwarded-For %s limited, got %d", forged, code)
		}
	}
}

func TestRegister_OwnerRoutes(t *testing.T) {
	e, contacts, manager := newTestServer(t)
	ownerID := uuid.New()
	token, err := manager.GenerateToken(ownerID.String(), "owner@example.com", auth.RoleAuthenticated)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?status=failed", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if contacts.listedFor != ownerID {
		t.Fatalf("expected contacts listed for token subject, got %s", contacts.listedFor)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/contacts/"+uuid.NewString()+"/sync-logs", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign contact logs, got %d", rec.Code)
	}
}
