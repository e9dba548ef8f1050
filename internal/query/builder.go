// Package query translates untrusted listing parameters (pagination, sort,
// filters) into safe GORM clauses. Sort keys only ever reach SQL through the
// fixed column maps below; everything else is bound as a parameter.
package query

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// JobSortColumns maps client-facing sort keys for the public jobs listing.
var JobSortColumns = map[string]string{
	"created_at":   "jobs.created_at",
	"title":        "jobs.title",
	"company_name": "jobs.company_name",
	"location":     "jobs.location",
}

// ApplicationSortColumns maps sort keys for the recruiter applications listing.
var ApplicationSortColumns = map[string]string{
	"applied_at":     "applications.applied_at",
	"candidate_name": "users.name",
	"email":          "users.email",
	"job_title":      "jobs.title",
	"status":         "applications.status",
}

type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// NewPagination coerces page/limit to positive ints, falling back to page 1
// and the listing's default limit.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// OrderBy builds a multi-column ORDER BY from comma-separated sort keys and
// directions, paired positionally. Unrecognized keys fall back to defaultKey;
// any direction other than ASC (case-insensitive) becomes DESC. The result is
// composed only of allow-listed column names and the two direction literals.
func OrderBy(allowed map[string]string, defaultKey, sortBy, order string) string {
	keys := splitTrim(sortBy)
	dirs := strings.Split(order, ",")

	if len(keys) == 0 {
		return allowed[defaultKey] + " DESC"
	}

	clauses := make([]string, 0, len(keys))
	for i, k := range keys {
		col, ok := allowed[k]
		if !ok {
			col = allowed[defaultKey]
		}
		dir := "DESC"
		if i < len(dirs) && strings.EqualFold(strings.TrimSpace(dirs[i]), "ASC") {
			dir = "ASC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	return strings.Join(clauses, ", ")
}

// ParseIDs coerces a comma-separated id list to positive ints. The second
// return reports whether the parameter was present at all, so callers can
// distinguish "no ids filter" from "ids filter that matched nothing".
func ParseIDs(raw string) ([]uint, bool) {
	if raw == "" {
		return nil, false
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids, true
}

// SplitTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func SplitTags(raw string) []string {
	return splitTrim(raw)
}

func splitTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JobFilters holds the public jobs listing filters. Zero values contribute no
// predicate.
type JobFilters struct {
	// Title matches jobs.title OR jobs.company_name as a substring.
	Title    string
	Location string
	// Skills is comma-separated; tokens OR-match as substrings of jobs.skills.
	Skills string
}

func ApplyJobFilters(q *gorm.DB, f JobFilters) *gorm.DB {
	if f.Title != "" {
		like := "%" + f.Title + "%"
		q = q.Where("jobs.title LIKE ? OR jobs.company_name LIKE ?", like, like)
	}
	if f.Location != "" {
		q = q.Where("jobs.location = ?", f.Location)
	}
	if tokens := SplitTags(f.Skills); len(tokens) > 0 {
		q = ApplySkillsAny(q, tokens)
	}
	return q
}

// ApplySkillsAny appends an OR sub-group of substring matches against the
// comma-joined skills column. Substring semantics are deliberate: tokens match
// partial overlaps ("Java" matches "JavaScript").
func ApplySkillsAny(q *gorm.DB, tokens []string) *gorm.DB {
	if len(tokens) == 0 {
		return q
	}
	return q.Where(skillsMatch(q.Session(&gorm.Session{NewDB: true}), tokens))
}

func skillsMatch(sub *gorm.DB, tokens []string) *gorm.DB {
	for i, t := range tokens {
		if i == 0 {
			sub = sub.Where("jobs.skills LIKE ?", "%"+t+"%")
		} else {
			sub = sub.Or("jobs.skills LIKE ?", "%"+t+"%")
		}
	}
	return sub
}

// ApplicationFilters holds the recruiter applications listing filters.
type ApplicationFilters struct {
	Status         string
	Candidate      string
	CandidateEmail string
	JobTitle       string
	AppliedFrom    string
	AppliedTo      string
}

func ApplyApplicationFilters(q *gorm.DB, f ApplicationFilters) *gorm.DB {
	if f.Status != "" {
		q = q.Where("applications.status = ?", f.Status)
	}
	if f.Candidate != "" {
		q = q.Where("users.name LIKE ?", "%"+f.Candidate+"%")
	}
	if f.CandidateEmail != "" {
		q = q.Where("users.email LIKE ?", "%"+f.CandidateEmail+"%")
	}
	if f.JobTitle != "" {
		q = q.Where("jobs.title LIKE ?", "%"+f.JobTitle+"%")
	}
	if f.AppliedFrom != "" {
		q = q.Where("applications.applied_at >= ?", f.AppliedFrom)
	}
	if f.AppliedTo != "" {
		q = q.Where("applications.applied_at <= ?", f.AppliedTo)
	}
	return q
}

// ExportRequested reports whether the export flag bypasses pagination.
func ExportRequested(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "true")
}
