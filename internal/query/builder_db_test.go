package query

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobportal-backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedJob(t *testing.T, gdb *gorm.DB, title, location, skills string) {
	t.Helper()
	job := models.Job{
		PostedBy:    uuid.New(),
		Title:       title,
		Description: "d",
		Location:    location,
		Skills:      skills,
		CompanyName: "Acme",
	}
	if err := gdb.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
}

func titles(t *testing.T, q *gorm.DB) []string {
	t.Helper()
	var out []string
	if err := q.Order("jobs.title").Pluck("jobs.title", &out).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	return out
}

// The skills OR sub-group must not leak past the AND with other predicates:
// location=Remote AND (Go OR Python) may not match an on-site Go job.
func TestApplyJobFiltersSkillsGroupIsolation(t *testing.T) {
	gdb := testDB(t)
	seedJob(t, gdb, "remote-go", "Remote", "Go,SQL")
	seedJob(t, gdb, "remote-none", "Remote", "Rust")
	seedJob(t, gdb, "onsite-go", "Berlin", "Go")

	got := titles(t, ApplyJobFilters(gdb.Model(&models.Job{}), JobFilters{
		Location: "Remote",
		Skills:   "Go,Python",
	}))
	if len(got) != 1 || got[0] != "remote-go" {
		t.Fatalf("got %v, want [remote-go]", got)
	}
}

func TestApplyJobFiltersAbsentFiltersMatchAll(t *testing.T) {
	gdb := testDB(t)
	seedJob(t, gdb, "a", "Remote", "Go")
	seedJob(t, gdb, "b", "", "")

	got := titles(t, ApplyJobFilters(gdb.Model(&models.Job{}), JobFilters{}))
	if len(got) != 2 {
		t.Fatalf("got %v, want both rows", got)
	}
}

func TestApplyJobFiltersTitleMatchesCompanyToo(t *testing.T) {
	gdb := testDB(t)
	seedJob(t, gdb, "Backend Engineer", "Remote", "Go")

	job := models.Job{
		PostedBy:    uuid.New(),
		Title:       "Designer",
		Description: "d",
		CompanyName: "Backend Labs",
	}
	if err := gdb.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}

	got := titles(t, ApplyJobFilters(gdb.Model(&models.Job{}), JobFilters{Title: "Backend"}))
	if len(got) != 2 {
		t.Fatalf("got %v, want title and company matches", got)
	}
}

func TestApplySkillsAnySubstringSemantics(t *testing.T) {
	gdb := testDB(t)
	seedJob(t, gdb, "js", "Remote", "JavaScript")
	seedJob(t, gdb, "go", "Remote", "Go")

	// "Java" matching "JavaScript" is intentional, preserved behavior
	got := titles(t, ApplySkillsAny(gdb.Model(&models.Job{}), []string{"Java"}))
	if len(got) != 1 || got[0] != "js" {
		t.Fatalf("got %v, want [js]", got)
	}
}
