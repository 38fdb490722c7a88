package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
	"github.com/octobees/digital-card/api/internal/service"
)

var errNotImplemented = errors.New("not implemented")

type stubContactsManager struct {
	submit    func(ctx context.Context, req dto.CreateContactRequest, meta service.SubmissionMeta) (*service.SubmitResult, error)
	list      func(ctx context.Context, ownerID uuid.UUID, status string) ([]entity.Contact, error)
	syncOwned func(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*service.SyncResult, error)
	syncLogs  func(ctx context.Context, ownerID uuid.UUID, rawContactID string) ([]entity.SyncLog, error)
}

func (s *stubContactsManager) Submit(ctx context.Context, req dto.CreateContactRequest, meta service.SubmissionMeta) (*service.SubmitResult, error) {
	if s.submit != nil {
		return s.submit(ctx, req, meta)
	}
	return nil, errNotImplemented
}

func (s *stubContactsManager) List(ctx context.Context, ownerID uuid.UUID, status string) ([]entity.Contact, error) {
	if s.list != nil {
		return s.list(ctx, ownerID, status)
	}
	return nil, errNotImplemented
}

func (s *stubContactsManager) SyncOwned(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*service.SyncResult, error) {
	if s.syncOwned != nil {
		return s.syncOwned(ctx, ownerID, rawContactID)
	}
	return nil, errNotImplemented
}

func (s *stubContactsManager) SyncLogs(ctx context.Context, ownerID uuid.UUID, rawContactID string) ([]entity.SyncLog, error) {
	if s.syncLogs != nil {
		return s.syncLogs(ctx, ownerID, rawContactID)
	}
	return nil, errNotImplemented
}

type stubProfileManager struct {
	get           func(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error)
	update        func(ctx context.Context, owner service.Owner, req dto.UpdateProfileRequest) (*entity.Profile, error)
	saveGHL       func(ctx context.Context, owner service.Owner, req dto.GHLSettingsRequest) (*entity.Profile, error)
	testGHL       func(ctx context.Context, req dto.GHLTestRequest) error
	notifications func(ctx context.Context, ownerID uuid.UUID, req dto.NotificationSettingsRequest) (*entity.Profile, error)
}

func (s *stubProfileManager) Get(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error) {
	if s.get != nil {
		return s.get(ctx, ownerID)
	}
	return nil, errNotImplemented
}

func (s *stubProfileManager) Update(ctx context.Context, owner service.Owner, req dto.UpdateProfileRequest) (*entity.Profile, error) {
	if s.update != nil {
		return s.update(ctx, owner, req)
	}
	return nil, errNotImplemented
}

func (s *stubProfileManager) SaveGHLSettings(ctx context.Context, owner service.Owner, req dto.GHLSettingsRequest) (*entity.Profile, error) {
	if s.saveGHL != nil {
		return s.saveGHL(ctx, owner, req)
	}
	return nil, errNotImplemented
}

func (s *stubProfileManager) TestGHLConnection(ctx context.Context, req dto.GHLTestRequest) error {
	if s.testGHL != nil {
		return s.testGHL(ctx, req)
	}
	return errNotImplemented
}

func (s *stubProfileManager) SaveNotifications(ctx context.Context, ownerID uuid.UUID, req dto.NotificationSettingsRequest) (*entity.Profile, error) {
	if s.notifications != nil {
		return s.notifications(ctx, ownerID, req)
	}
	return nil, errNotImplemented
}

type stubRenderer struct {
	doc     *service.VCardDocument
	compact string
	err     error
}

func (s *stubRenderer) Render(ctx context.Context, username string) (*service.VCardDocument, error) {
	return s.doc, s.err
}

func (s *stubRenderer) RenderCompact(ctx context.Context, username string) (string, error) {
	return s.compact, s.err
}

var testOwnerID = uuid.MustParse("7a1c1a4e-3c1f-4b0e-9f43-2b7d1d6f0a11")

// newContext builds an echo context, optionally carrying the authenticated owner.
func newContext(method, target, body string, authenticated bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authenticated {
		c.Set(middlewarepkg.ContextKeyOwnerID, testOwnerID)
		c.Set(middlewarepkg.ContextKeyOwnerEmail, "owner@example.com")
	}
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}
