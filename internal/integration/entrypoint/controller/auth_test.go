package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/household-ledger/backend/config"
	"github.com/household-ledger/backend/internal/application/usecase/auth"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/integration/adapters"
	"github.com/household-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/household-ledger/backend/internal/integration/entrypoint/validator"
	"github.com/household-ledger/backend/internal/integration/persistence"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := fixedClock{now: time.Now().UTC()}
	users := persistence.NewUserRepository(db)
	passwords := adapters.NewPasswordServiceWithCost(4)
	tokens := adapters.NewTokenService(config.JWTConfig{
		Secret:             "controller-test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: time.Hour,
	}, persistence.NewTokenRepository(db, clock), clock)

	ctrl := NewAuthController(
		auth.NewRegisterUserUseCase(users, passwords, tokens),
		auth.NewLoginUserUseCase(users, passwords, tokens),
		auth.NewRefreshTokenUseCase(users, tokens),
		auth.NewLogoutUserUseCase(tokens),
	)

	router := gin.New()
	group := router.Group("/auth")
	group.POST("/register", ctrl.Register)
	group.POST("/login", ctrl.Login)
	group.POST("/refresh", ctrl.RefreshToken)
	group.POST("/logout", ctrl.Logout)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAna(t *testing.T, router *gin.Engine) dto.AuthResponse {
	t.Helper()
	rec := postJSON(router, "/auth/register",
		`{"username":"ana","email":"ana@example.com","name":"Ana Souza","password":"Secret123!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestAuthController_Register(t *testing.T) {
	router := newAuthRouter(t)
	resp := registerAna(t, router)

	if resp.TokenType != "Bearer" || resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Errorf("unexpected token response %+v", resp.TokenResponse)
	}
	if resp.User.Username != "ana" || resp.User.Email != "ana@example.com" {
		t.Errorf("unexpected user %+v", resp.User)
	}

	t.Run("duplicate username", func(t *testing.T) {
		rec := postJSON(router, "/auth/register",
			`{"username":"ana","email":"other@example.com","name":"Ana Two","password":"Secret123!"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("field errors are reported by json name", func(t *testing.T) {
		rec := postJSON(router, "/auth/register", `{"username":"ab","email":"not-an-email","name":"Al","password":"Secret123!"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var body dto.ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Code != string(domainerror.ErrCodeMissingFields) {
			t.Errorf("code = %q", body.Code)
		}
		for _, want := range []string{"username: min", "email: email"} {
			if !strings.Contains(body.Details, want) {
				t.Errorf("details %q should mention %q", body.Details, want)
			}
		}
	})
}

func TestAuthController_Login(t *testing.T) {
	router := newAuthRouter(t)
	registerAna(t, router)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"identifier as username", `{"identifier":"ana","password":"Secret123!"}`, http.StatusOK, ""},
		{"identifier as email", `{"identifier":"ana@example.com","password":"Secret123!"}`, http.StatusOK, ""},
		{"username field", `{"username":"ana","password":"Secret123!"}`, http.StatusOK, ""},
		{"email field in mixed case", `{"email":"Ana@Example.com","password":"Secret123!"}`, http.StatusOK, ""},
		{"identifier wins over username", `{"identifier":"ana","username":"nobody","password":"Secret123!"}`, http.StatusOK, ""},
		{"no account name", `{"password":"Secret123!"}`, http.StatusBadRequest, string(domainerror.ErrCodeMissingFields)},
		{"malformed email field", `{"email":"ana","password":"Secret123!"}`, http.StatusBadRequest, string(domainerror.ErrCodeMissingFields)},
		{"wrong password", `{"username":"ana","password":"nope-nope"}`, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidCredentials)},
		{"unknown user", `{"username":"bruno","password":"Secret123!"}`, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidCredentials)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(router, "/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var resp dto.AuthResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.User.Username != "ana" {
					t.Errorf("unexpected body %s", rec.Body.String())
				}
				return
			}
			var body dto.ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	router := newAuthRouter(t)
	session := registerAna(t, router)

	rec := postJSON(router, "/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, session.RefreshToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rotated dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = postJSON(router, "/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, session.RefreshToken))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("replayed token status = %d, want 401", rec.Code)
	}
	rec = postJSON(router, "/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, rotated.RefreshToken))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("rotated token should be revoked after a replay, status = %d", rec.Code)
	}

	rec = postJSON(router, "/auth/refresh", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing token status = %d, want 400", rec.Code)
	}

	for name, body := range map[string]string{"empty body": ``, "unknown token": `{"refresh_token":"nope"}`} {
		rec := postJSON(router, "/auth/logout", body)
		if rec.Code != http.StatusOK {
			t.Errorf("logout with %s: status = %d, want 200", name, rec.Code)
		}
	}
}
