package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/logger"
	"github.com/gin-gonic/gin"
)

const testToken = "test-token"
const testUserID = uint(7)

// --- Fakes ---

type fakeAuth struct {
	registerFn func(username, password string) (uint, error)
	loginFn    func(username, password string) (string, error)
}

func (f *fakeAuth) Register(_ context.Context, username, password string) (uint, error) {
	return f.registerFn(username, password)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	return f.loginFn(username, password)
}

func (f *fakeAuth) VerifyToken(token string) (uint, error) {
	if token == testToken {
		return testUserID, nil
	}
	return 0, apperrors.ErrUnauthorized
}

type fakeProfiles struct {
	saveFn func(userID uint, in domain.ProfileInput) (*domain.User, error)
	getFn  func(userID uint) (*domain.User, error)
}

func (f *fakeProfiles) Save(_ context.Context, userID uint, in domain.ProfileInput) (*domain.User, error) {
	return f.saveFn(userID, in)
}

func (f *fakeProfiles) Get(_ context.Context, userID uint) (*domain.User, error) {
	return f.getFn(userID)
}

type fakeEntries struct {
	addFn     func(userID uint, in domain.EntryInput) (*domain.Entry, error)
	dailyFn   func(userID uint, date string) (*domain.DailyStats, error)
	historyFn func(userID uint, rng string) ([]domain.HistoryPoint, error)
	updateFn  func(userID, id uint, in domain.EntryUpdate) error
	deleteFn  func(userID, id uint) error
}

func (f *fakeEntries) Add(_ context.Context, userID uint, in domain.EntryInput) (*domain.Entry, error) {
	return f.addFn(userID, in)
}

func (f *fakeEntries) DailyStats(_ context.Context, userID uint, date string) (*domain.DailyStats, error) {
	return f.dailyFn(userID, date)
}

func (f *fakeEntries) History(_ context.Context, userID uint, rng string) ([]domain.HistoryPoint, error) {
	return f.historyFn(userID, rng)
}

func (f *fakeEntries) Update(_ context.Context, userID, id uint, in domain.EntryUpdate) error {
	return f.updateFn(userID, id, in)
}

func (f *fakeEntries) Delete(_ context.Context, userID, id uint) error {
	return f.deleteFn(userID, id)
}

type fakeFavorites struct {
	addFn    func(userID uint, in domain.FavoriteInput) (*domain.Favorite, error)
	listFn   func(userID uint) ([]domain.Favorite, error)
	deleteFn func(userID, id uint) error
	scaleFn  func(userID, id uint, grams float64) (*domain.ScaledFavorite, error)
}

func (f *fakeFavorites) Add(_ context.Context, userID uint, in domain.FavoriteInput) (*domain.Favorite, error) {
	return f.addFn(userID, in)
}

func (f *fakeFavorites) List(_ context.Context, userID uint) ([]domain.Favorite, error) {
	return f.listFn(userID)
}

func (f *fakeFavorites) Delete(_ context.Context, userID, id uint) error {
	return f.deleteFn(userID, id)
}

func (f *fakeFavorites) ScaleToWeight(_ context.Context, userID, id uint, grams float64) (*domain.ScaledFavorite, error) {
	return f.scaleFn(userID, id, grams)
}

type fakeAnalyses struct {
	foodImageFn func(userID uint, image string, weightG float64) (*domain.FoodAnalysis, error)
	foodTextFn  func(userID uint, text string) (*domain.FoodAnalysis, error)
	sportFn     func(userID uint, text string) (*domain.SportAnalysis, error)
}

func (f *fakeAnalyses) AnalyzeFoodImage(_ context.Context, userID uint, image string, weightG float64) (*domain.FoodAnalysis, error) {
	return f.foodImageFn(userID, image, weightG)
}

func (f *fakeAnalyses) AnalyzeFoodText(_ context.Context, userID uint, text string) (*domain.FoodAnalysis, error) {
	return f.foodTextFn(userID, text)
}

func (f *fakeAnalyses) AnalyzeSportText(_ context.Context, userID uint, text string) (*domain.SportAnalysis, error) {
	return f.sportFn(userID, text)
}

// --- Helpers ---

type fixtures struct {
	auth      *fakeAuth
	profiles  *fakeProfiles
	entries   *fakeEntries
	favorites *fakeFavorites
	analyses  *fakeAnalyses
}

func newTestServer(f fixtures) *gin.Engine {
	if f.auth == nil {
		f.auth = &fakeAuth{}
	}
	if f.profiles == nil {
		f.profiles = &fakeProfiles{}
	}
	if f.entries == nil {
		f.entries = &fakeEntries{}
	}
	if f.favorites == nil {
		f.favorites = &fakeFavorites{}
	}
	if f.analyses == nil {
		f.analyses = &fakeAnalyses{}
	}
	return New(f.auth, f.profiles, f.entries, f.favorites, f.analyses).Router()
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		errType apperrors.ErrorType
		want    int
	}{
		{apperrors.ErrorTypeValidation, http.StatusBadRequest},
		{apperrors.ErrorTypePermission, http.StatusUnauthorized},
		{apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{apperrors.ErrorTypeConflict, http.StatusConflict},
		{apperrors.ErrorTypeRateLimit, http.StatusTooManyRequests},
		{apperrors.ErrorTypeExternal, http.StatusBadGateway},
		{apperrors.ErrorTypeTimeout, http.StatusGatewayTimeout},
		{apperrors.ErrorTypeDatabase, http.StatusInternalServerError},
		{apperrors.ErrorTypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.errType); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.errType, got, tt.want)
		}
	}
}

// --- Auth plumbing ---

func TestAuthRequired(t *testing.T) {
	router := newTestServer(fixtures{})

	w := doRequest(t, router, http.MethodGet, "/api/entries/today", "", false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/entries/today", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d, want 401", w.Code)
	}
}

func TestRegister(t *testing.T) {
	router := newTestServer(fixtures{
		auth: &fakeAuth{
			registerFn: func(username, password string) (uint, error) {
				if username == "taken" {
					return 0, apperrors.NewConflictError("username already taken")
				}
				return 3, nil
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret"}`, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		UserID  uint `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Success || resp.UserID != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}

	w = doRequest(t, router, http.MethodPost, "/api/auth/register", `{"username":"taken","password":"secret"}`, false)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username status = %d, want 409", w.Code)
	}
}

func TestLogin(t *testing.T) {
	router := newTestServer(fixtures{
		auth: &fakeAuth{
			loginFn: func(username, password string) (string, error) {
				if username == "alice" && password == "secret" {
					return "issued-token", nil
				}
				return "", apperrors.New(apperrors.ErrorTypePermission, "INVALID_CREDENTIALS", "Invalid credentials")
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret"}`, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp["token"] != "issued-token" || resp["username"] != "alice" {
		t.Errorf("unexpected response: %v", resp)
	}

	w = doRequest(t, router, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", w.Code)
	}
}

// --- Profile ---

func TestSaveProfile(t *testing.T) {
	bmr := 1673.75
	router := newTestServer(fixtures{
		profiles: &fakeProfiles{
			saveFn: func(userID uint, in domain.ProfileInput) (*domain.User, error) {
				if userID != testUserID {
					t.Errorf("userID = %d, want %d", userID, testUserID)
				}
				if in.Gender != "male" || in.ActivityLevel != 1.375 {
					t.Errorf("unexpected input: %+v", in)
				}
				return &domain.User{ID: userID, BMR: &bmr}, nil
			},
		},
	})

	body := `{"gender":"male","age":25,"weight":70,"height":175,"activity_level":1.375}`
	w := doRequest(t, router, http.MethodPost, "/api/user", body, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool    `json:"success"`
		BMR     float64 `json:"bmr"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Success || resp.BMR != 1673.75 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSaveProfile_ValidationError(t *testing.T) {
	router := newTestServer(fixtures{
		profiles: &fakeProfiles{
			saveFn: func(userID uint, in domain.ProfileInput) (*domain.User, error) {
				return nil, apperrors.NewValidationError("age must be positive")
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/user", `{"gender":"male"}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetProfile_MissingUserIsNull(t *testing.T) {
	router := newTestServer(fixtures{
		profiles: &fakeProfiles{
			getFn: func(userID uint) (*domain.User, error) {
				return nil, apperrors.NewNotFoundError("user not found")
			},
		},
	})

	w := doRequest(t, router, http.MethodGet, "/api/user", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

// --- Entries ---

func TestAddEntry(t *testing.T) {
	router := newTestServer(fixtures{
		entries: &fakeEntries{
			addFn: func(userID uint, in domain.EntryInput) (*domain.Entry, error) {
				return &domain.Entry{ID: 42, UserID: userID, Type: in.Type, Name: in.Name}, nil
			},
		},
	})

	body := `{"type":"food","name":"Oatmeal","calories":300}`
	w := doRequest(t, router, http.MethodPost, "/api/entries", body, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID      uint `json:"id"`
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.ID != 42 || !resp.Success {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDailyStats(t *testing.T) {
	router := newTestServer(fixtures{
		entries: &fakeEntries{
			dailyFn: func(userID uint, date string) (*domain.DailyStats, error) {
				if date != "2024-03-10" {
					t.Errorf("date = %q, want 2024-03-10", date)
				}
				return &domain.DailyStats{CaloriesIn: 1000, CaloriesOut: 300, Entries: []domain.Entry{}}, nil
			},
		},
	})

	w := doRequest(t, router, http.MethodGet, "/api/entries/today?date=2024-03-10", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats domain.DailyStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if stats.CaloriesIn != 1000 || stats.CaloriesOut != 300 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestHistory_InvalidRange(t *testing.T) {
	router := newTestServer(fixtures{
		entries: &fakeEntries{
			historyFn: func(userID uint, rng string) ([]domain.HistoryPoint, error) {
				return nil, apperrors.NewValidationError("range must be week, month or year")
			},
		},
	})

	w := doRequest(t, router, http.MethodGet, "/api/entries/history?range=century", "", true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	router := newTestServer(fixtures{
		entries: &fakeEntries{
			deleteFn: func(userID, id uint) error {
				return apperrors.NewNotFoundError("entry not found")
			},
		},
	})

	w := doRequest(t, router, http.MethodDelete, "/api/entries/99", "", true)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateEntry(t *testing.T) {
	var gotID uint
	router := newTestServer(fixtures{
		entries: &fakeEntries{
			updateFn: func(userID, id uint, in domain.EntryUpdate) error {
				gotID = id
				return nil
			},
		},
	})

	w := doRequest(t, router, http.MethodPut, "/api/entries/13", `{"name":"Run","calories":250,"date":"2024-03-10T08:00:00Z"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotID != 13 {
		t.Errorf("id = %d, want 13", gotID)
	}
}

func TestEntryInvalidID(t *testing.T) {
	router := newTestServer(fixtures{})
	w := doRequest(t, router, http.MethodDelete, "/api/entries/abc", "", true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// --- Favorites ---

func TestAddFavorite_Conflict(t *testing.T) {
	router := newTestServer(fixtures{
		favorites: &fakeFavorites{
			addFn: func(userID uint, in domain.FavoriteInput) (*domain.Favorite, error) {
				return nil, apperrors.ErrDuplicateFavorite
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/favorites", `{"type":"food","name":"Oatmeal","calories":300}`, true)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestScaleFavorite(t *testing.T) {
	router := newTestServer(fixtures{
		favorites: &fakeFavorites{
			scaleFn: func(userID, id uint, grams float64) (*domain.ScaledFavorite, error) {
				if grams != 150 {
					t.Errorf("grams = %v, want 150", grams)
				}
				return &domain.ScaledFavorite{Name: "Oatmeal", Calories: 300, Weight: grams}, nil
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/favorites/5/scale", `{"weight":150}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var scaled domain.ScaledFavorite
	if err := json.Unmarshal(w.Body.Bytes(), &scaled); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if scaled.Calories != 300 || scaled.Weight != 150 {
		t.Errorf("unexpected response: %+v", scaled)
	}
}

// --- Analysis ---

func TestAnalyzeFoodText(t *testing.T) {
	router := newTestServer(fixtures{
		analyses: &fakeAnalyses{
			foodTextFn: func(userID uint, text string) (*domain.FoodAnalysis, error) {
				return &domain.FoodAnalysis{Foods: []domain.FoodItem{{Name: "Pasta", Calories: 450}}}, nil
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/analyze/food-text", `{"text":"a plate of pasta"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result domain.FoodAnalysis
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(result.Foods) != 1 || result.Foods[0].Name != "Pasta" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestAnalyzeFood_RateLimited(t *testing.T) {
	router := newTestServer(fixtures{
		analyses: &fakeAnalyses{
			foodImageFn: func(userID uint, image string, weightG float64) (*domain.FoodAnalysis, error) {
				return nil, apperrors.ErrRateLimitExceeded
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/analyze/food", `{"image":"data:image/jpeg;base64,abcd"}`, true)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestAnalyzeSport_UpstreamFailure(t *testing.T) {
	router := newTestServer(fixtures{
		analyses: &fakeAnalyses{
			sportFn: func(userID uint, text string) (*domain.SportAnalysis, error) {
				return nil, apperrors.NewAnalysisError(nil, "gemini")
			},
		},
	})

	w := doRequest(t, router, http.MethodPost, "/api/analyze/sport", `{"text":"30 min run"}`, true)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
