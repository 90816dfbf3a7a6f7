package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo-app/backend/internal/handlers"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockAuthService struct {
	registerErr error
	loginErr    error
	changeErr   error
	parseID     uuid.UUID
	parseErr    error
	lastEmail   string
	called      bool
}

func (m *MockAuthService) RegisterUser(db *gorm.DB, name, email, password string) (*models.User, string, error) {
	m.called = true
	m.lastEmail = email
	if m.registerErr != nil {
		return nil, "", m.registerErr
	}
	return &models.User{ID: uuid.Must(uuid.NewV4()), Name: name, Email: email}, "test-token", nil
}

func (m *MockAuthService) LoginUser(db *gorm.DB, email, password string) (*models.User, string, error) {
	m.called = true
	if m.loginErr != nil {
		return nil, "", m.loginErr
	}
	return &models.User{ID: uuid.Must(uuid.NewV4()), Name: "Ann", Email: email}, "test-token", nil
}

func (m *MockAuthService) ChangePassword(db *gorm.DB, userID uuid.UUID, currentPassword, newPassword string) error {
	m.called = true
	return m.changeErr
}

func (m *MockAuthService) GenerateToken(userID uuid.UUID) (string, error) {
	return "test-token", nil
}

func (m *MockAuthService) ParseToken(tokenStr string) (uuid.UUID, error) {
	return m.parseID, m.parseErr
}

func setupAuthHandler() (*MockAuthService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockAuthService{}
	handler := handlers.NewAuthHandler(nil, mockService)
	router := gin.New()
	router.POST("/user/register", handler.Register)
	router.POST("/user/login", handler.Login)
	return mockService, router
}

func postJSON(router *gin.Engine, path, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterSuccess(t *testing.T) {
	_, router := setupAuthHandler()

	w := postJSON(router, "/user/register", `{"name":"Ann","email":"ann@x.com","password":"Abcdef12"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	if body["token"] != "test-token" {
		t.Errorf("Expected token in response, got %v", body["token"])
	}
	user := body["user"].(map[string]interface{})
	if user["email"] != "ann@x.com" {
		t.Errorf("Expected public user fields, got %v", user)
	}
	if _, hasPassword := user["password"]; hasPassword {
		t.Error("Password must never appear in responses")
	}
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		message string
	}{
		{"missing fields", `{"name":"Ann"}`, "All fields are required"},
		{"short name", `{"name":"A","email":"ann@x.com","password":"Abcdef12"}`, "Name must be at least 2 characters"},
		{"bad email", `{"name":"Ann","email":"not-an-email","password":"Abcdef12"}`, "Invalid email format"},
		{"weak password", `{"name":"Ann","email":"ann@x.com","password":"abcdef12"}`, "Password must contain at least one uppercase letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := setupAuthHandler()

			w := postJSON(router, "/user/register", tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			body := decodeEnvelope(t, w)
			if body["message"] != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, body["message"])
			}
			if mockService.called {
				t.Error("Validation failures must never reach the service")
			}
		})
	}
}

func TestRegisterEmailConflict(t *testing.T) {
	mockService, router := setupAuthHandler()
	mockService.registerErr = services.ErrEmailTaken

	w := postJSON(router, "/user/register", `{"name":"Ann","email":"ann@x.com","password":"Abcdef12"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Email already registered" {
		t.Errorf("Expected conflict message, got %v", body["message"])
	}
}

func TestLoginSuccess(t *testing.T) {
	_, router := setupAuthHandler()

	w := postJSON(router, "/user/login", `{"email":"ann@x.com","password":"Abcdef12"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["token"] != "test-token" {
		t.Errorf("Expected token, got %v", body["token"])
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	mockService, router := setupAuthHandler()
	mockService.loginErr = services.ErrInvalidCredentials

	w := postJSON(router, "/user/login", `{"email":"ann@x.com","password":"Wrongpas1"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Invalid credentials" {
		t.Errorf("Expected uniform message, got %v", body["message"])
	}
}

func TestLoginMissingFields(t *testing.T) {
	mockService, router := setupAuthHandler()

	w := postJSON(router, "/user/login", `{"email":"ann@x.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if mockService.called {
		t.Error("Missing fields must never reach the service")
	}
}
