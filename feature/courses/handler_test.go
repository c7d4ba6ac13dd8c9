package courses

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-studio/core/reconcile"
	"course-studio/core/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, as session.Session) (*fiber.App, *Service) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), NewDrafts(time.Hour), zap.NewNop(), reconcile.ApplyOptions{Transactional: true})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		session.Set(c, as)
		return c.Next()
	})
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHandler_CreateAndGet(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	status, created := request(t, app, http.MethodPost, "/courses", fiber.Map{
		"title":       "Go",
		"description": "Learn Go",
		"category":    "Advanced",
		"modules": []fiber.Map{
			{"title": "Basics", "videos": []fiber.Map{
				{"title": "Hello", "source_url": "https://www.youtube.com/watch?v=abc123&t=5"},
				{"title": "", "source_url": "https://youtu.be/skipped"},
			}},
			{"title": ""},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "advanced", created["category"])

	modules := created["modules"].([]any)
	require.Len(t, modules, 1)
	videos := modules[0].(map[string]any)["videos"].([]any)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", videos[0].(map[string]any)["embed_url"])

	status, fetched := request(t, app, http.MethodGet, "/courses/"+created["id"].(string), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Go", fetched["title"])
}

func TestHandler_CreateValidation(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	status, body := request(t, app, http.MethodPost, "/courses", fiber.Map{"title": " ", "description": "d", "category": "beginner"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "notblank", body["fields"].(map[string]any)["title"])

	status, body = request(t, app, http.MethodPost, "/courses", fiber.Map{"title": "T", "description": "d", "category": "expert"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "category")
}

func TestHandler_NotFound(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	status, _ := request(t, app, http.MethodGet, "/courses/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodPost, "/courses/missing/drafts", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodGet, "/drafts/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_LearnerCannotAuthor(t *testing.T) {
	app, _ := setupTestApp(t, session.Session{UserID: "u1", Role: session.RoleLearner})

	status, _ := request(t, app, http.MethodPost, "/courses", fiber.Map{"title": "T", "description": "d", "category": "beginner"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = request(t, app, http.MethodGet, "/courses", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHandler_DraftFlow(t *testing.T) {
	app, svc := setupTestApp(t, session.System())

	_, created := request(t, app, http.MethodPost, "/courses", fiber.Map{
		"title": "Go", "description": "Learn Go", "category": "beginner",
		"modules": []fiber.Map{{"title": "A"}, {"title": "B"}},
	})
	courseID := created["id"].(string)
	firstModule := created["modules"].([]any)[0].(map[string]any)["id"].(string)

	status, opened := request(t, app, http.MethodPost, "/courses/"+courseID+"/drafts", nil)
	require.Equal(t, http.StatusCreated, status)
	draftID := opened["draft_id"].(string)
	base := "/drafts/" + draftID

	status, _ = request(t, app, http.MethodPatch, base, fiber.Map{"title": "Go 2"})
	require.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodDelete, base+"/modules/"+firstModule, nil)
	require.Equal(t, http.StatusOK, status)

	status, added := request(t, app, http.MethodPost, base+"/modules", fiber.Map{"title": "C"})
	require.Equal(t, http.StatusCreated, status)
	newModule := added["module_id"].(string)

	status, addedVideo := request(t, app, http.MethodPost, base+"/modules/"+newModule+"/videos", fiber.Map{"title": "intro"})
	require.Equal(t, http.StatusCreated, status)
	videoID := addedVideo["video_id"].(string)

	status, _ = request(t, app, http.MethodPatch, base+"/modules/"+newModule+"/videos/"+videoID, fiber.Map{"source_url": "https://youtu.be/x"})
	require.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodPost, base+"/modules/unknown/videos", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, plan := request(t, app, http.MethodGet, base+"/plan", nil)
	require.Equal(t, http.StatusOK, status)
	summary := plan["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["deletions"])
	assert.Equal(t, float64(2), summary["inserts"])

	status, saved := request(t, app, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, status)
	result := saved["result"].(map[string]any)
	assert.Len(t, result["inserted"], 2)

	view, err := svc.Get(t.Context(), courseID)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", view.Title)
	require.Len(t, view.Modules, 2)
	assert.Equal(t, "B", view.Modules[0].Title)
	assert.Equal(t, "C", view.Modules[1].Title)
	assert.Equal(t, "https://www.youtube.com/embed/x", view.Modules[1].Videos[0].EmbedURL)

	status, _ = request(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestHandler_DraftValidationOnSave(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	_, created := request(t, app, http.MethodPost, "/courses", fiber.Map{"title": "Go", "description": "Learn Go", "category": "beginner"})
	_, opened := request(t, app, http.MethodPost, "/courses/"+created["id"].(string)+"/drafts", nil)
	base := "/drafts/" + opened["draft_id"].(string)

	status, _ := request(t, app, http.MethodPatch, base, fiber.Map{"category": "expert"})
	assert.Equal(t, http.StatusBadRequest, status)

	request(t, app, http.MethodPatch, base, fiber.Map{"description": ""})
	status, body := request(t, app, http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "description")
}

func TestHandler_DeleteCourse(t *testing.T) {
	app, _ := setupTestApp(t, session.System())

	_, created := request(t, app, http.MethodPost, "/courses", fiber.Map{"title": "Go", "description": "Learn Go", "category": "beginner"})
	path := "/courses/" + created["id"].(string)

	status, _ := request(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = request(t, app, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
