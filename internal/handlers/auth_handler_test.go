package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

func setupAuthRouter(mock *mockUserService) *gin.Engine {
	handler := NewAuthHandler(mock, &mockAuditService{})
	router := gin.New()
	auth := router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)

		protected := auth.Group("")
		protected.Use(injectUserID(1))
		{
			protected.POST("/logout", handler.Logout)
			protected.GET("/profile", handler.GetProfile)
			protected.PUT("/password", handler.UpdatePassword)
			protected.DELETE("/account", handler.DeleteAccount)
		}
	}
	return router
}

func testUser() *models.User {
	user := &models.User{Name: "Alice", Email: "alice@example.com", Currency: "USD"}
	user.ID = 1
	return user
}

func TestRegisterHandler(t *testing.T) {
	t.Run("returns tokens and the user", func(t *testing.T) {
		mock := &mockUserService{
			createFn: func(name, email, password, currency string) (*models.User, error) {
				return testUser(), nil
			},
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPost, "/auth/register", gin.H{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "supersecret",
		})
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}

		body := parseJSON(t, recorder)
		if body["token"] == nil || body["refresh_token"] == nil {
			t.Errorf("expected token pair, got %v", body)
		}
		user := body["user"].(map[string]interface{})
		if user["email"] != "alice@example.com" {
			t.Errorf("unexpected user: %v", user)
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password must never be serialized")
		}
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		mock := &mockUserService{
			createFn: func(name, email, password, currency string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPost, "/auth/register", gin.H{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "supersecret",
		})
		assertErrorCode(t, recorder, http.StatusConflict, "DUPLICATE_EMAIL")
	})

	t.Run("invalid email is rejected by binding", func(t *testing.T) {
		router := setupAuthRouter(&mockUserService{})
		recorder := doRequest(router, http.MethodPost, "/auth/register", gin.H{
			"name":     "Alice",
			"email":    "not-an-email",
			"password": "supersecret",
		})
		assertErrorCode(t, recorder, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("bad currency is rejected by binding", func(t *testing.T) {
		router := setupAuthRouter(&mockUserService{})
		recorder := doRequest(router, http.MethodPost, "/auth/register", gin.H{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "supersecret",
			"currency": "DOGE",
		})
		assertErrorCode(t, recorder, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("valid credentials return tokens", func(t *testing.T) {
		mock := &mockUserService{
			byEmailFn: func(email string) (*models.User, error) { return testUser(), nil },
			verifyFn:  func(user *models.User, password string) bool { return password == "supersecret" },
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPost, "/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "supersecret",
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		body := parseJSON(t, recorder)
		if body["token"] == nil {
			t.Errorf("expected token, got %v", body)
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		mock := &mockUserService{
			byEmailFn: func(email string) (*models.User, error) { return testUser(), nil },
			verifyFn:  func(user *models.User, password string) bool { return false },
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPost, "/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assertErrorCode(t, recorder, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})

	t.Run("unknown email is 401, not 404", func(t *testing.T) {
		mock := &mockUserService{
			byEmailFn: func(email string) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
			verifyFn:  func(user *models.User, password string) bool { return true },
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPost, "/auth/login", gin.H{
			"email":    "ghost@example.com",
			"password": "whatever",
		})
		assertErrorCode(t, recorder, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("garbage token is 401", func(t *testing.T) {
		router := setupAuthRouter(&mockUserService{})
		recorder := doRequest(router, http.MethodPost, "/auth/refresh", gin.H{
			"refresh_token": "not-a-jwt",
		})
		assertErrorCode(t, recorder, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN")
	})
}

func TestUpdatePasswordHandler(t *testing.T) {
	t.Run("wrong current password is 401", func(t *testing.T) {
		mock := &mockUserService{
			updatePasswordFn: func(userID uint, current, next string) error {
				return apperrors.ErrIncorrectPassword
			},
		}
		router := setupAuthRouter(mock)

		recorder := doRequest(router, http.MethodPut, "/auth/password", gin.H{
			"current_password": "wrong",
			"new_password":     "newpassword",
		})
		assertErrorCode(t, recorder, http.StatusUnauthorized, "INCORRECT_PASSWORD")
	})

	t.Run("short new password is rejected by binding", func(t *testing.T) {
		router := setupAuthRouter(&mockUserService{})
		recorder := doRequest(router, http.MethodPut, "/auth/password", gin.H{
			"current_password": "supersecret",
			"new_password":     "short",
		})
		assertErrorCode(t, recorder, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestDeleteAccountHandler(t *testing.T) {
	mock := &mockUserService{
		deleteAccountFn: func(userID uint, password string) error {
			if userID != 1 {
				t.Errorf("expected user 1, got %d", userID)
			}
			return nil
		},
	}
	router := setupAuthRouter(mock)

	recorder := doRequest(router, http.MethodDelete, "/auth/account", gin.H{
		"password": "supersecret",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestGetProfileHandler(t *testing.T) {
	mock := &mockUserService{
		byIDFn: func(id uint) (*models.User, error) { return testUser(), nil },
	}
	router := setupAuthRouter(mock)

	recorder := doRequest(router, http.MethodGet, "/auth/profile", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := parseJSON(t, recorder)
	data := body["data"].(map[string]interface{})
	if data["email"] != "alice@example.com" {
		t.Errorf("unexpected profile: %v", data)
	}
}
