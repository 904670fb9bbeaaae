package directory

import (
	"fmt"
	"testing"

	"mentorhub/internal/models"
	"mentorhub/internal/roles"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func buildUsers() []*models.User {
	users := make([]*models.User, 0, 25)
	for i := 0; i < 12; i++ {
		users = append(users, &models.User{
			ID:             uuid.New(),
			Name:           fmt.Sprintf("Mentor %02d", i),
			Email:          fmt.Sprintf("mentor%02d@acme.com", i),
			Company:        strPtr("Acme"),
			Role:           "MENTOR",
			OrganizationID: "org-a",
		})
	}
	for i := 0; i < 13; i++ {
		users = append(users, &models.User{
			ID:             uuid.New(),
			Name:           fmt.Sprintf("Mentee %02d", i),
			Email:          fmt.Sprintf("mentee%02d@globex.com", i),
			Company:        strPtr("Globex"),
			Role:           "MENTEE",
			OrganizationID: "org-b",
		})
	}
	return users
}

func TestBuild_PaginationPartitionsFilteredSet(t *testing.T) {
	users := buildUsers()
	f := Filters{Category: CategoryMentees} // 13 matches

	const pageSize = 5
	first := Build(users, f, 1, pageSize)
	assert.Equal(t, 13, first.TotalItems)
	assert.Equal(t, 3, first.TotalPages)

	seen := map[uuid.UUID]bool{}
	var collected []*models.User
	for page := 1; page <= first.TotalPages; page++ {
		p := Build(users, f, page, pageSize)
		for _, u := range p.Items {
			assert.False(t, seen[u.ID], "duplicate item across pages")
			seen[u.ID] = true
		}
		collected = append(collected, p.Items...)
	}
	assert.Len(t, collected, 13, "concatenated pages must reproduce the filtered set")
}

func TestBuild_FiltersAndCompose(t *testing.T) {
	users := buildUsers()

	p := Build(users, Filters{Search: "mentor0", Role: roles.Mentor, OrganizationID: "org-a"}, 1, 50)
	assert.Equal(t, 10, p.TotalItems) // mentor00..mentor09

	// Search ORs across fields: company name matches too.
	p = Build(users, Filters{Search: "globex"}, 1, 50)
	assert.Equal(t, 13, p.TotalItems)

	// Case-insensitive.
	p = Build(users, Filters{Search: "GLOBEX"}, 1, 50)
	assert.Equal(t, 13, p.TotalItems)

	// AND composition: search matches but org does not.
	p = Build(users, Filters{Search: "globex", OrganizationID: "org-a"}, 1, 50)
	assert.Equal(t, 0, p.TotalItems)
}

func TestBuild_PageClamping(t *testing.T) {
	users := buildUsers()
	f := Filters{Category: CategoryMentors} // 12 matches, 3 pages of 5

	p := Build(users, f, 99, 5)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, p.Items, 2)

	p = Build(users, f, -4, 5)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, 5)

	// Empty result set still reports page 1.
	p = Build(users, Filters{Search: "no such person"}, 7, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestBuild_Deterministic(t *testing.T) {
	users := buildUsers()
	f := Filters{Search: "acme"}
	a := Build(users, f, 2, 4)
	b := Build(users, f, 2, 4)
	assert.Equal(t, a, b)
}

func TestState_FilterChangeResetsPage(t *testing.T) {
	s := NewState()
	s.SetPage(3)
	assert.Equal(t, 3, s.Page())

	s.SetSearch("mentor")
	assert.Equal(t, 1, s.Page(), "search change must reset page")

	s.SetPage(2)
	s.SetRole(roles.Mentor)
	assert.Equal(t, 1, s.Page(), "role change must reset page")

	s.SetPage(2)
	s.SetCategory(CategoryMentees)
	assert.Equal(t, 1, s.Page(), "category change must reset page")

	// Setting the same value again is not a change.
	s.SetPage(2)
	s.SetCategory(CategoryMentees)
	assert.Equal(t, 2, s.Page())
}

func TestState_RenderClampsAndTracksPage(t *testing.T) {
	users := buildUsers()
	s := NewState()
	s.SetCategory(CategoryMentors)
	s.SetPage(50)

	p := s.Render(users)
	assert.Equal(t, 2, p.Page) // 12 mentors at page size 10
	assert.Equal(t, 2, s.Page())
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 20, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(3, 20, 5))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, PageWindow(10, 20, 5))
	assert.Equal(t, []int{16, 17, 18, 19, 20}, PageWindow(19, 20, 5))
	assert.Equal(t, []int{16, 17, 18, 19, 20}, PageWindow(20, 20, 5))
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3, 5), "window shrinks to total")
	assert.Nil(t, PageWindow(1, 0, 5))
}
