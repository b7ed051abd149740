package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/middleware"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	router       *gin.Engine
	handler      *Handler
	users        *fakeUsers
	appointments *fakeAppointments
	meals        *fakeMeals
	dietPlans    *fakeDietPlans
	questions    *fakeQuestions
	posts        *fakePosts
	notifier     *fakeNotifier
	assistant    *fakeAssistant
	tokens       *utils.JWTManager
}

type testEnvelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Message     string          `json:"message"`
	Error       string          `json:"error"`
	TotalPages  int64           `json:"totalPages"`
	CurrentPage int64           `json:"currentPage"`
}

type testUser struct {
	id    primitive.ObjectID
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:        &fakeUsers{docs: map[primitive.ObjectID]models.User{}},
		appointments: &fakeAppointments{docs: map[primitive.ObjectID]models.Appointment{}},
		meals:        &fakeMeals{docs: map[primitive.ObjectID]models.Meal{}},
		dietPlans:    &fakeDietPlans{docs: map[primitive.ObjectID]models.DietPlan{}},
		questions:    &fakeQuestions{docs: map[primitive.ObjectID]models.Question{}},
		posts:        &fakePosts{docs: map[primitive.ObjectID]models.Post{}},
		notifier:     &fakeNotifier{},
		assistant:    &fakeAssistant{answer: "Drink plenty of water."},
		tokens:       utils.NewJWTManager("test-secret", time.Hour),
	}
	stores := &store.Stores{
		Users:        env.users,
		Appointments: env.appointments,
		Meals:        env.meals,
		DietPlans:    env.dietPlans,
		Questions:    env.questions,
		Posts:        env.posts,
	}
	env.handler = NewHandler(stores, env.tokens, env.notifier, env.assistant, false)

	env.router = gin.New()
	env.router.Use(middleware.RequestID(), middleware.Recovery())
	env.handler.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register signs a user up through the API.
func (e *testEnv) register(t *testing.T, name, email string) testUser {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var payload authPayload
	decodeData(t, w, &payload)
	id, err := primitive.ObjectIDFromHex(payload.ID)
	require.NoError(t, err)
	return testUser{id: id, token: payload.Token}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) testEnvelope {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
	return env
}
