package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobportal-backend/internal/models"
	"jobportal-backend/internal/query"
)

type ApplicationHandler struct {
	DB            *gorm.DB
	UploadDir     string
	PublicBaseURL string
	Log           *zap.Logger
}

func NewApplicationHandler(db *gorm.DB, uploadDir, publicBaseURL string, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{DB: db, UploadDir: uploadDir, PublicBaseURL: publicBaseURL, Log: log}
}

// applicationRow is the recruiter listing projection.
type applicationRow struct {
	ID            uint                     `json:"id"`
	CandidateName string                   `json:"candidate_name"`
	Email         string                   `json:"email"`
	JobTitle      string                   `json:"job_title"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
	Resume        string                   `json:"-"`
	ResumeURL     string                   `json:"resume_url" gorm:"-"`
}

const applicationListColumns = "applications.id, users.name AS candidate_name, users.email, jobs.title AS job_title, applications.status, applications.applied_at, applications.resume"

func (h *ApplicationHandler) resumeURL(path string) string {
	if path == "" {
		return ""
	}
	return h.PublicBaseURL + "/uploads/" + path
}

// Apply submits an application with a resume file. The file lands on disk
// before the row insert; an orphaned file after a failed insert is accepted.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid job ID",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil || file == nil || file.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Resume is required",
		})
	}

	var jobCount int64
	if err := h.DB.Model(&models.Job{}).Where("id = ?", jobID).Count(&jobCount).Error; err != nil {
		return serverError(c, h.Log, "apply: check job", err)
	}
	if jobCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Job not found",
		})
	}

	var existing int64
	if err := h.DB.Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, uid).
		Count(&existing).Error; err != nil {
		return serverError(c, h.Log, "apply: check existing", err)
	}
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Already applied",
		})
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(file.Filename)))
	relPath := filepath.Join("resumes", filename)

	if err := os.MkdirAll(filepath.Join(h.UploadDir, "resumes"), 0o755); err != nil {
		return serverError(c, h.Log, "apply: create upload dir", err)
	}
	if err := c.SaveFile(file, filepath.Join(h.UploadDir, relPath)); err != nil {
		return serverError(c, h.Log, "apply: save resume", err)
	}

	app := models.Application{
		JobID:  uint(jobID),
		UserID: uid,
		Resume: relPath,
		Status: models.StatusApplied,
	}

	if err := h.DB.Create(&app).Error; err != nil {
		// a concurrent duplicate slipping past the pre-check hits the
		// unique index; report it like the pre-check would have
		if isDuplicateErr(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Already applied",
			})
		}
		return serverError(c, h.Log, "apply: create application", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job applied successfully",
	})
}

// IsApplied is a pure existence check for the apply button state.
func (h *ApplicationHandler) IsApplied(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid job ID",
		})
	}

	var count int64
	if err := h.DB.Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, uid).
		Count(&count).Error; err != nil {
		return serverError(c, h.Log, "isApplied: count", err)
	}

	return c.JSON(fiber.Map{"applied": count > 0})
}

// ListForJob returns the applications for a single job the caller owns.
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid job ID",
		})
	}

	var rows []applicationRow
	if err := h.DB.Model(&models.Application{}).
		Select(applicationListColumns).
		Joins("JOIN jobs ON applications.job_id = jobs.id").
		Joins("JOIN users ON applications.user_id = users.id").
		Where("applications.job_id = ? AND jobs.posted_by = ?", jobID, uid).
		Order("applications.applied_at DESC").
		Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list job applications", err)
	}

	for i := range rows {
		rows[i].ResumeURL = h.resumeURL(rows[i].Resume)
	}

	return c.JSON(fiber.Map{"data": emptyIfNil(rows)})
}

// ListForRecruiter is the filtered, sorted, paginated applications listing
// across all the caller's jobs. The posted_by predicate keeps one recruiter's
// rows invisible to another regardless of the filters supplied.
func (h *ApplicationHandler) ListForRecruiter(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	filters := query.ApplicationFilters{
		Status:         c.Query("status"),
		Candidate:      c.Query("candidate"),
		CandidateEmail: c.Query("candidateEmail"),
		JobTitle:       c.Query("jobTitle"),
		AppliedFrom:    c.Query("appliedFrom"),
		AppliedTo:      c.Query("appliedTo"),
	}
	orderSQL := query.OrderBy(query.ApplicationSortColumns, "applied_at", c.Query("sortBy"), c.Query("order"))

	base := func() *gorm.DB {
		q := h.DB.Model(&models.Application{}).
			Joins("JOIN jobs ON applications.job_id = jobs.id").
			Joins("JOIN users ON applications.user_id = users.id").
			Where("jobs.posted_by = ?", uid)
		return query.ApplyApplicationFilters(q, filters)
	}

	if query.ExportRequested(c.Query("export")) {
		var rows []applicationRow
		if err := base().
			Select(applicationListColumns).
			Order(orderSQL).
			Scan(&rows).Error; err != nil {
			return serverError(c, h.Log, "export applications", err)
		}
		for i := range rows {
			rows[i].ResumeURL = h.resumeURL(rows[i].Resume)
		}
		return c.JSON(fiber.Map{
			"total": len(rows),
			"data":  emptyIfNil(rows),
		})
	}

	p := query.NewPagination(c.QueryInt("page", 1), c.QueryInt("limit", 10), 10)

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return serverError(c, h.Log, "count applications", err)
	}

	var rows []applicationRow
	if err := base().
		Select(applicationListColumns).
		Order(orderSQL).
		Limit(p.Limit).
		Offset(p.Offset).
		Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list applications", err)
	}
	for i := range rows {
		rows[i].ResumeURL = h.resumeURL(rows[i].Resume)
	}

	return c.JSON(fiber.Map{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  emptyIfNil(rows),
	})
}

// ListMine returns the candidate's own applications, newest first.
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	type candidateRow struct {
		ID        uint                     `json:"id"`
		JobTitle  string                   `json:"job_title"`
		Status    models.ApplicationStatus `json:"status"`
		AppliedAt time.Time                `json:"applied_at"`
		Resume    string                   `json:"-"`
		ResumeURL string                   `json:"resume_url" gorm:"-"`
	}

	var rows []candidateRow
	if err := h.DB.Model(&models.Application{}).
		Select("applications.id, jobs.title AS job_title, applications.status, applications.applied_at, applications.resume").
		Joins("JOIN jobs ON applications.job_id = jobs.id").
		Where("applications.user_id = ?", uid).
		Order("applications.applied_at DESC").
		Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list own applications", err)
	}

	for i := range rows {
		rows[i].ResumeURL = h.resumeURL(rows[i].Resume)
	}

	return c.JSON(fiber.Map{"data": emptyIfNil(rows)})
}

type UpdateStatusReq struct {
	Status models.ApplicationStatus `json:"status"`
}

// UpdateStatus moves an application between the fixed statuses. The update is
// scoped to applications on jobs the caller owns; a foreign or missing id is
// indistinguishable from the outside.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
		})
	}

	var req UpdateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	if !models.ValidApplicationStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid status",
		})
	}

	ownedJobs := h.DB.Model(&models.Job{}).Select("id").Where("posted_by = ?", uid)
	res := h.DB.Model(&models.Application{}).
		Where("id = ? AND job_id IN (?)", appID, ownedJobs).
		Update("status", req.Status)
	if res.Error != nil {
		return serverError(c, h.Log, "update application status", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated successfully",
	})
}

// GetResume streams a stored resume. Authorization is the join itself: the
// row must belong to a job posted by the caller.
func (h *ApplicationHandler) GetResume(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
		})
	}

	var resume string
	res := h.DB.Model(&models.Application{}).
		Select("applications.resume").
		Joins("JOIN jobs ON applications.job_id = jobs.id").
		Where("applications.id = ? AND jobs.posted_by = ?", appID, uid).
		Scan(&resume)
	if res.Error != nil {
		return serverError(c, h.Log, "get resume", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Resume not found",
		})
	}
	if resume == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No resume available",
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filepath.Base(resume)))
	return c.SendFile(filepath.Join(h.UploadDir, resume))
}
