package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

func TestUserHandler_Create(t *testing.T) {
	admin := &stubAdminService{
		createUserFn: func(_ context.Context, name, password string) (*domain.User, error) {
			if name != "bob" || password != "pw" {
				t.Fatalf("unexpected arguments %q %q", name, password)
			}
			return &domain.User{ID: domain.NewID(), Name: name}, nil
		},
	}
	h := NewUserHandler(admin)

	req := httptest.NewRequest(http.MethodPost, "/users?user_name=bob&password=pw", nil)
	c, rec := newTestContext(req)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", rec.Code)
	}
	var resp userInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserName != "bob" {
		t.Fatalf("response name %q, want bob", resp.UserName)
	}
	if resp.Roles == nil || len(resp.Roles) != 0 {
		t.Fatalf("new user must report an empty roles array, got %v", resp.Roles)
	}
}

func TestUserHandler_List(t *testing.T) {
	admin := &stubAdminService{
		listUsersFn: func(context.Context) ([]ports.UserInfo, error) {
			return []ports.UserInfo{
				{ID: domain.NewID(), Name: "admin", Roles: []string{"admin"}},
				{ID: domain.NewID(), Name: "alice", Roles: nil},
			}, nil
		},
	}
	h := NewUserHandler(admin)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	c, rec := newTestContext(req)

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	var resp []userInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected two users, got %d", len(resp))
	}
	// Users without roles still serialize an array, not null.
	if resp[1].Roles == nil {
		t.Fatalf("roles must never be null in the response")
	}
}

func TestUserHandler_Search(t *testing.T) {
	admin := &stubAdminService{
		searchUserFn: func(_ context.Context, name string) (*ports.UserInfo, error) {
			if name != "alice" {
				return nil, domain.ErrUserNotFound
			}
			return &ports.UserInfo{ID: domain.NewID(), Name: "alice", Roles: []string{"viewer"}}, nil
		},
	}
	h := NewUserHandler(admin)

	req := httptest.NewRequest(http.MethodGet, "/users/search?username_query=alice", nil)
	c, rec := newTestContext(req)
	if err := h.Search(c); err != nil {
		t.Fatalf("Search: %v", err)
	}
	var resp userInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserName != "alice" {
		t.Fatalf("response name %q, want alice", resp.UserName)
	}

	req = httptest.NewRequest(http.MethodGet, "/users/search?username_query=ghost", nil)
	c, _ = newTestContext(req)
	if err := h.Search(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	target := domain.NewID()
	admin := &stubAdminService{
		deleteUserFn: func(_ context.Context, id uuid.UUID) error {
			if id != target {
				t.Fatalf("wrong id %s", id)
			}
			return nil
		},
	}
	h := NewUserHandler(admin)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+target.String(), nil)
	c, rec := newTestContext(req)
	c.SetParamNames("user_id")
	c.SetParamValues(target.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", rec.Code)
	}
}

func TestUserHandler_Delete_InvalidID(t *testing.T) {
	h := NewUserHandler(&stubAdminService{})

	req := httptest.NewRequest(http.MethodDelete, "/users/not-a-uuid", nil)
	c, _ := newTestContext(req)
	c.SetParamNames("user_id")
	c.SetParamValues("not-a-uuid")

	var ve domain.ValidationError
	if err := h.Delete(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
