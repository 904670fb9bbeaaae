// Package directory derives the admin console's member listing: filtered,
// paginated slices over an in-memory user collection. Everything here is pure
// over its inputs so a given snapshot and filter set always renders the same
// page.
package directory

import (
	"strings"

	"mentorhub/internal/common"
	"mentorhub/internal/models"
	"mentorhub/internal/roles"
)

// Categories narrow the listing to one side of the mentorship relation.
const (
	CategoryAll     = "all"
	CategoryMentors = "mentors"
	CategoryMentees = "mentees"
)

// DefaultPageSize matches the admin console's table size.
const DefaultPageSize = 10

// Filters are AND-composed; an item is visible iff it matches every active
// filter. Zero values deactivate a filter.
type Filters struct {
	Search         string     // case-insensitive substring over name/email/company
	Role           roles.Role // exact canonical role
	OrganizationID string     // exact organization scope
	Category       string     // CategoryAll/CategoryMentors/CategoryMentees
}

// Page is one visible slice plus its pagination metadata.
type Page struct {
	Items      []*models.User `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

func matchesSearch(u *models.User, needle string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, field := range []string{u.Name, u.Email, common.SafeString(u.Company)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesCategory(u *models.User, category string) bool {
	switch category {
	case CategoryMentors:
		return roles.Resolve(u.Role) == roles.Mentor
	case CategoryMentees:
		return roles.Resolve(u.Role) == roles.Mentee
	default:
		return true
	}
}

// Filter returns the users visible under f, preserving input order.
func Filter(users []*models.User, f Filters) []*models.User {
	visible := make([]*models.User, 0, len(users))
	for _, u := range users {
		if !matchesSearch(u, f.Search) {
			continue
		}
		if f.Role != "" && roles.Resolve(u.Role) != f.Role {
			continue
		}
		if f.OrganizationID != "" && u.OrganizationID != f.OrganizationID {
			continue
		}
		if !matchesCategory(u, f.Category) {
			continue
		}
		visible = append(visible, u)
	}
	return visible
}

// Build filters users and slices out the requested page. Out-of-range pages
// clamp to the nearest valid page rather than erroring.
func Build(users []*models.User, f Filters, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	visible := Filter(users, f)
	totalItems := len(visible)
	totalPages := (totalItems + pageSize - 1) / pageSize

	page = clampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Page{
		Items:      visible[start:end],
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages > 0 && page > totalPages {
		return totalPages
	}
	if totalPages == 0 {
		return 1
	}
	return page
}

// PageWindow returns the page numbers to render as buttons: a window of at
// most width pages that keeps current visible and clamps at both ends of the
// range.
func PageWindow(current, total, width int) []int {
	if total <= 0 || width <= 0 {
		return nil
	}
	if width > total {
		width = total
	}
	start := current - width/2
	if start < 1 {
		start = 1
	}
	if start > total-width+1 {
		start = total - width + 1
	}
	window := make([]int, width)
	for i := range window {
		window[i] = start + i
	}
	return window
}

// State is the mutable view state backing the directory screen. Filter and
// category changes reset the page to 1 so a stale page number is never applied
// to a changed result set.
type State struct {
	filters  Filters
	page     int
	pageSize int
}

func NewState() *State {
	return &State{page: 1, pageSize: DefaultPageSize, filters: Filters{Category: CategoryAll}}
}

func (s *State) Filters() Filters { return s.filters }
func (s *State) Page() int        { return s.page }

func (s *State) SetSearch(search string) {
	if s.filters.Search != search {
		s.filters.Search = search
		s.page = 1
	}
}

func (s *State) SetRole(role roles.Role) {
	if s.filters.Role != role {
		s.filters.Role = role
		s.page = 1
	}
}

func (s *State) SetOrganization(orgID string) {
	if s.filters.OrganizationID != orgID {
		s.filters.OrganizationID = orgID
		s.page = 1
	}
}

func (s *State) SetCategory(category string) {
	if s.filters.Category != category {
		s.filters.Category = category
		s.page = 1
	}
}

func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// Render builds the current page against a snapshot; the effective page after
// clamping is written back so the state tracks the visible page.
func (s *State) Render(users []*models.User) Page {
	result := Build(users, s.filters, s.page, s.pageSize)
	s.page = result.Page
	return result
}
