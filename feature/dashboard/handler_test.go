package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-studio/core/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, as session.Session) (*fiber.App, *Service) {
	t.Helper()
	svc := NewService(setupTestDB(t), zap.NewNop())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		session.Set(c, as)
		return c.Next()
	})
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func TestHandler_LearnerFlow(t *testing.T) {
	app, svc := setupTestApp(t, learner)
	courseID, videos := seedCourse(t, svc.db, "Go", 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/videos/"+videos[0]+"/watched", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/courses/"+courseID+"/enroll", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/videos/"+videos[0]+"/watched", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p CourseProgress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, float64(100), p.Progress)
	assert.NotNil(t, p.CompletedAt)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d Dashboard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, 1, d.Stats.Completed)
	assert.Equal(t, 1, d.Stats.Certificates)
}

func TestHandler_NotFound(t *testing.T) {
	app, _ := setupTestApp(t, learner)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/courses/missing/enroll", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/videos/missing/watched", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_AdminIsRejected(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
