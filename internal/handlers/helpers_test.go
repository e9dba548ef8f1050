package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobportal-backend/internal/middleware"
	"jobportal-backend/internal/models"
	"jobportal-backend/internal/utils"
)

const testSecret = "handlers-test-secret"

// hash of "password", computed once; bcrypt at cost 10 is slow enough to
// matter across many seeded users
var testPasswordHash string

func init() {
	h, err := utils.HashPassword("password")
	if err != nil {
		panic(err)
	}
	testPasswordHash = h
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	dir string
}

// newTestEnv builds the full route table against an in-memory database, no
// cache wired.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}, &models.SavedJob{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop()
	dir := t.TempDir()

	authH := &AuthHandler{DB: gdb, JWTSecret: testSecret, Expires: 1440, Log: log}
	jobH := NewJobHandler(gdb, nil, log)
	appH := NewApplicationHandler(gdb, dir, "http://localhost:8080", log)
	savedH := NewSavedJobHandler(gdb, log)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)

	jobs := api.Group("/jobs")
	jobs.Get("/", jobH.List)
	jobs.Get("/filters/locations", jobH.GetLocations)
	jobs.Get("/filters/skills", jobH.GetSkills)

	verifyJWT := middleware.JWTFromHeader(testSecret)
	attach := middleware.AttachJWTLocals()
	candidateOnly := middleware.RequireRoles("candidate")
	recruiterOnly := middleware.RequireRoles("recruiter")

	jobs.Get("/saved", verifyJWT, attach, candidateOnly, savedH.ListSaved)
	jobs.Post("/saved/migrate", verifyJWT, attach, candidateOnly, savedH.Migrate)
	jobs.Post("/:id/save", verifyJWT, attach, candidateOnly, savedH.Save)
	jobs.Delete("/:id/save", verifyJWT, attach, candidateOnly, savedH.Unsave)

	jobs.Post("/", verifyJWT, attach, recruiterOnly, jobH.Create)
	jobs.Get("/mine", verifyJWT, attach, recruiterOnly, jobH.ListMine)
	jobs.Delete("/:id", verifyJWT, attach, recruiterOnly, jobH.Delete)
	jobs.Get("/:id/applications", verifyJWT, attach, recruiterOnly, appH.ListForJob)

	jobs.Post("/:id/apply", verifyJWT, attach, candidateOnly, appH.Apply)
	jobs.Get("/:id/applied", verifyJWT, attach, candidateOnly, appH.IsApplied)

	jobs.Get("/:id/related", jobH.Related)
	jobs.Get("/:id", jobH.GetByID)

	applications := api.Group("/applications")
	applications.Get("/", verifyJWT, attach, recruiterOnly, appH.ListForRecruiter)
	applications.Get("/me", verifyJWT, attach, candidateOnly, appH.ListMine)
	applications.Patch("/:id/status", verifyJWT, attach, recruiterOnly, appH.UpdateStatus)
	applications.Get("/:id/resume", verifyJWT, attach, recruiterOnly, appH.GetResume)

	return &testEnv{app: app, db: gdb, dir: dir}
}

func (e *testEnv) createUser(t *testing.T, name, email string, role models.Role) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    email,
		Password: testPasswordHash,
		Role:     role,
	}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func tokenFor(t *testing.T, u models.User) string {
	t.Helper()
	token, err := utils.SignJWT(testSecret, u.ID.String(), string(u.Role), 60)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (e *testEnv) seedJob(t *testing.T, recruiter models.User, title, location, skills string, createdAt time.Time) models.Job {
	t.Helper()
	job := models.Job{
		PostedBy:    recruiter.ID,
		Title:       title,
		Description: "description",
		Location:    location,
		Skills:      skills,
		CompanyName: "Acme Corp",
		CreatedAt:   createdAt,
	}
	if err := e.db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func (e *testEnv) doMultipart(t *testing.T, path, token, field, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func dataRows(t *testing.T, body map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := body["data"].([]interface{})
	if !ok {
		t.Fatalf("body has no data array: %v", body)
	}
	rows := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			t.Fatalf("row is not an object: %v", r)
		}
		rows = append(rows, m)
	}
	return rows
}
