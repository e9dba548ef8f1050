package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobportal-backend/internal/models"
)

type SavedJobHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewSavedJobHandler(db *gorm.DB, log *zap.Logger) *SavedJobHandler {
	return &SavedJobHandler{DB: db, Log: log}
}

// Save bookmarks a job. Saving twice is idempotent: the unique index rejects
// the duplicate and the caller gets "already saved" instead of an error.
func (h *SavedJobHandler) Save(c *fiber.Ctx) error {
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

	var jobCount int64
	if err := h.DB.Model(&models.Job{}).Where("id = ?", jobID).Count(&jobCount).Error; err != nil {
		return serverError(c, h.Log, "save job: check job", err)
	}
	if jobCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Job not found",
		})
	}

	saved := models.SavedJob{UserID: uid, JobID: uint(jobID)}
	if err := h.DB.Create(&saved).Error; err != nil {
		if isDuplicateErr(err) {
			return c.JSON(fiber.Map{
				"success": true,
				"message": "Already saved",
			})
		}
		return serverError(c, h.Log, "save job", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job saved",
	})
}

func (h *SavedJobHandler) Unsave(c *fiber.Ctx) error {
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

	if err := h.DB.
		Where("user_id = ? AND job_id = ?", uid, jobID).
		Delete(&models.SavedJob{}).Error; err != nil {
		return serverError(c, h.Log, "unsave job", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job removed from saved list",
	})
}

func (h *SavedJobHandler) ListSaved(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var rows []jobRow
	if err := h.DB.Model(&models.Job{}).
		Select(jobListColumns).
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.user_id = ?", uid).
		Order("saved_jobs.saved_at DESC").
		Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list saved jobs", err)
	}

	return c.JSON(fiber.Map{"data": emptyIfNil(rows)})
}

type MigrateSavedReq struct {
	JobIDs []uint `json:"jobIds"`
}

// Migrate bulk-imports saved job ids kept client-side before login. Pairs
// already present are skipped via ON CONFLICT DO NOTHING.
func (h *SavedJobHandler) Migrate(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req MigrateSavedReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}
	if len(req.JobIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No jobIds provided",
		})
	}

	// keep only ids that still exist so a stale bookmark can't fail the batch
	var existing []uint
	if err := h.DB.Model(&models.Job{}).
		Where("id IN ?", req.JobIDs).
		Pluck("id", &existing).Error; err != nil {
		return serverError(c, h.Log, "migrate saved jobs: resolve ids", err)
	}
	if len(existing) == 0 {
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "Migrated saved jobs",
			"inserted": 0,
		})
	}

	rows := make([]models.SavedJob, 0, len(existing))
	for _, jobID := range existing {
		rows = append(rows, models.SavedJob{UserID: uid, JobID: jobID})
	}

	res := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return serverError(c, h.Log, "migrate saved jobs", res.Error)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Migrated saved jobs",
		"inserted": res.RowsAffected,
	})
}
