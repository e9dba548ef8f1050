package handlers

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobportal-backend/internal/cache"
	"jobportal-backend/internal/models"
	"jobportal-backend/internal/query"
)

type JobHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Log   *zap.Logger
}

func NewJobHandler(db *gorm.DB, c *cache.Cache, log *zap.Logger) *JobHandler {
	return &JobHandler{DB: db, Cache: c, Log: log}
}

type CreateJobReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Skills      string `json:"skills"`
	Experience  string `json:"experience"`
	CompanyName string `json:"company_name"`

	CompanyLogo    string `json:"company_logo"`
	CompanyAbout   string `json:"company_about"`
	CompanyWebsite string `json:"company_website"`
}

// jobRow is the public listing projection; description and the company blob
// stay out of list responses.
type jobRow struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Skills      string    `json:"skills"`
	Experience  string    `json:"experience"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

const jobListColumns = "jobs.id, jobs.title, jobs.location, jobs.skills, jobs.experience, jobs.company_name, jobs.created_at"

func (h *JobHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req CreateJobReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	if req.Title == "" || req.Description == "" || req.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Title, description and company name are required",
		})
	}

	var companyJSON datatypes.JSON
	if req.CompanyLogo != "" || req.CompanyAbout != "" || req.CompanyWebsite != "" {
		b, err := json.Marshal(models.CompanyProfile{
			Logo:    req.CompanyLogo,
			About:   req.CompanyAbout,
			Website: req.CompanyWebsite,
		})
		if err != nil {
			return serverError(c, h.Log, "create job: marshal company", err)
		}
		companyJSON = datatypes.JSON(b)
	}

	job := models.Job{
		PostedBy:    uid,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Skills:      req.Skills,
		Experience:  req.Experience,
		CompanyName: req.CompanyName,
		Company:     companyJSON,
	}

	if err := h.DB.Create(&job).Error; err != nil {
		return serverError(c, h.Log, "create job", err)
	}

	// new locations/skills may have appeared
	if err := h.Cache.InvalidateFilterDicts(c.Context()); err != nil {
		h.Log.Warn("failed to invalidate filter dictionaries", zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job created successfully",
		"id":      job.ID,
	})
}

// List is the public jobs listing. An `ids` parameter short-circuits every
// other filter and the pagination: it returns exactly the listed jobs, and an
// id set that coerces to nothing returns an empty page without touching the DB.
func (h *JobHandler) List(c *fiber.Ctx) error {
	if ids, present := query.ParseIDs(c.Query("ids")); present {
		if len(ids) == 0 {
			return c.JSON(fiber.Map{"data": []jobRow{}})
		}
		var rows []jobRow
		if err := h.DB.Model(&models.Job{}).
			Select(jobListColumns).
			Where("jobs.id IN ?", ids).
			Scan(&rows).Error; err != nil {
			return serverError(c, h.Log, "list jobs by ids", err)
		}
		return c.JSON(fiber.Map{"data": emptyIfNil(rows)})
	}

	p := query.NewPagination(c.QueryInt("page", 1), c.QueryInt("limit", 5), 5)
	filters := query.JobFilters{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Skills:   c.Query("skills"),
	}
	orderSQL := query.OrderBy(query.JobSortColumns, "created_at", c.Query("sortBy"), c.Query("order"))

	var total int64
	countQ := query.ApplyJobFilters(h.DB.Model(&models.Job{}), filters)
	if err := countQ.Count(&total).Error; err != nil {
		return serverError(c, h.Log, "count jobs", err)
	}

	var rows []jobRow
	q := query.ApplyJobFilters(h.DB.Model(&models.Job{}), filters).
		Select(jobListColumns).
		Order(orderSQL).
		Limit(p.Limit).
		Offset(p.Offset)
	if err := q.Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list jobs", err)
	}

	return c.JSON(fiber.Map{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  emptyIfNil(rows),
	})
}

// ListMine returns the authenticated recruiter's own postings.
func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	p := query.NewPagination(c.QueryInt("page", 1), c.QueryInt("limit", 10), 10)

	var total int64
	if err := h.DB.Model(&models.Job{}).
		Where("posted_by = ?", uid).
		Count(&total).Error; err != nil {
		return serverError(c, h.Log, "count recruiter jobs", err)
	}

	var rows []jobRow
	if err := h.DB.Model(&models.Job{}).
		Select(jobListColumns).
		Where("posted_by = ?", uid).
		Order("jobs.created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list recruiter jobs", err)
	}

	return c.JSON(fiber.Map{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  emptyIfNil(rows),
	})
}

func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid job ID",
		})
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Job not found",
			})
		}
		return serverError(c, h.Log, "get job", err)
	}

	var recruiterName string
	h.DB.Model(&models.User{}).
		Select("name").
		Where("id = ?", job.PostedBy).
		Scan(&recruiterName)

	return c.JSON(fiber.Map{
		"id":             job.ID,
		"title":          job.Title,
		"description":    job.Description,
		"location":       job.Location,
		"skills":         job.Skills,
		"experience":     job.Experience,
		"company_name":   job.CompanyName,
		"company":        job.Company,
		"posted_by":      job.PostedBy,
		"created_at":     job.CreatedAt,
		"recruiter_name": recruiterName,
	})
}

// Delete removes a posting, scoped to the owner. Zero affected rows means
// missing or foreign; both report NotFound so existence is never leaked.
func (h *JobHandler) Delete(c *fiber.Ctx) error {
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

	res := h.DB.Where("id = ? AND posted_by = ?", jobID, uid).Delete(&models.Job{})
	if res.Error != nil {
		return serverError(c, h.Log, "delete job", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Job not found or not owned by you",
		})
	}

	if err := h.Cache.InvalidateFilterDicts(c.Context()); err != nil {
		h.Log.Warn("failed to invalidate filter dictionaries", zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job deleted",
	})
}

// Related finds up to 5 other jobs sharing the target's location or any of
// its skill tokens, newest first. A target with no location and no skills
// degrades to "all other jobs, newest first".
func (h *JobHandler) Related(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid job ID",
		})
	}

	var target models.Job
	if err := h.DB.Select("location", "skills").First(&target, "id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Job not found",
			})
		}
		return serverError(c, h.Log, "get related target", err)
	}

	q := h.DB.Model(&models.Job{}).
		Select("jobs.id, jobs.title, jobs.company_name, jobs.location, jobs.skills, jobs.created_at").
		Where("jobs.id <> ?", jobID)

	// same location OR any overlapping skill token; with neither, every other
	// job qualifies
	var conds []string
	var args []interface{}
	if target.Location != "" {
		conds = append(conds, "jobs.location = ?")
		args = append(args, target.Location)
	}
	for _, token := range query.SplitTags(target.Skills) {
		conds = append(conds, "jobs.skills LIKE ?")
		args = append(args, "%"+token+"%")
	}
	if len(conds) > 0 {
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var rows []jobRow
	if err := q.Order("jobs.created_at DESC").Limit(5).Scan(&rows).Error; err != nil {
		return serverError(c, h.Log, "list related jobs", err)
	}

	return c.JSON(fiber.Map{"data": emptyIfNil(rows)})
}

// GetLocations returns the distinct non-empty location set for filter
// dropdowns, cached while the job table is quiet.
func (h *JobHandler) GetLocations(c *fiber.Ctx) error {
	if locations, err := h.Cache.GetLocations(c.Context()); err == nil {
		return c.JSON(fiber.Map{"data": locations})
	}

	var locations []string
	if err := h.DB.Model(&models.Job{}).
		Distinct("location").
		Where("location IS NOT NULL AND location <> ''").
		Order("location").
		Pluck("location", &locations).Error; err != nil {
		return serverError(c, h.Log, "list locations", err)
	}

	if locations == nil {
		locations = []string{}
	}
	if err := h.Cache.SetLocations(c.Context(), locations); err != nil {
		h.Log.Warn("failed to cache locations", zap.Error(err))
	}

	return c.JSON(fiber.Map{"data": locations})
}

// GetSkills splits every comma-separated skills field into tokens and returns
// the deduplicated, sorted union.
func (h *JobHandler) GetSkills(c *fiber.Ctx) error {
	if skills, err := h.Cache.GetSkills(c.Context()); err == nil {
		return c.JSON(fiber.Map{"data": skills})
	}

	var raw []string
	if err := h.DB.Model(&models.Job{}).
		Where("skills IS NOT NULL AND skills <> ''").
		Pluck("skills", &raw).Error; err != nil {
		return serverError(c, h.Log, "list skills", err)
	}

	seen := map[string]bool{}
	skills := []string{}
	for _, field := range raw {
		for _, token := range query.SplitTags(field) {
			if !seen[token] {
				seen[token] = true
				skills = append(skills, token)
			}
		}
	}
	sort.Strings(skills)

	if err := h.Cache.SetSkills(c.Context(), skills); err != nil {
		h.Log.Warn("failed to cache skills", zap.Error(err))
	}

	return c.JSON(fiber.Map{"data": skills})
}
