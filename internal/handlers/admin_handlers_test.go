package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mentorhub/internal/loader"
	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticUserSource struct {
	users []*models.User
}

func (s *staticUserSource) ListAll(ctx context.Context) ([]*models.User, error) {
	return s.users, nil
}

type staticOrgSource struct {
	orgs []*models.Organization
}

func (s *staticOrgSource) ListAll(ctx context.Context) ([]*models.Organization, error) {
	return s.orgs, nil
}

func directoryFixture() []*models.User {
	orgA := uuid.NewString()
	return []*models.User{
		{ID: uuid.New(), Name: "Alice Mentor", Email: "alice@a.com", Role: "MENTOR", OrganizationID: orgA},
		{ID: uuid.New(), Name: "Bob Mentee", Email: "bob@a.com", Role: "MENTEE", OrganizationID: orgA},
		{ID: uuid.New(), Name: "Cara Admin", Email: "cara@b.com", Role: "ORG_ADMIN", OrganizationID: uuid.NewString()},
	}
}

func newDirectoryRequest(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/directory"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDirectory_ReturnsFilteredPage(t *testing.T) {
	adminLoader := loader.NewAdminLoader(
		&staticUserSource{users: directoryFixture()},
		&staticOrgSource{},
		nil, loader.Options{})
	h := NewAdminHandlers(adminLoader, nil)

	c, rec := newDirectoryRequest(t, "?category=mentors")
	require.NoError(t, h.Directory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalItems)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Alice Mentor", resp.Items[0].Name)
	assert.True(t, resp.Complete)
}

func TestDirectory_SearchMatchesEmail(t *testing.T) {
	adminLoader := loader.NewAdminLoader(
		&staticUserSource{users: directoryFixture()},
		&staticOrgSource{},
		nil, loader.Options{})
	h := NewAdminHandlers(adminLoader, nil)

	c, rec := newDirectoryRequest(t, "?search=cara%40b.com")
	require.NoError(t, h.Directory(c))

	var resp DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalItems)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cara Admin", resp.Items[0].Name)
}

func TestDirectory_UnknownRoleRejected(t *testing.T) {
	adminLoader := loader.NewAdminLoader(
		&staticUserSource{users: directoryFixture()},
		&staticOrgSource{},
		nil, loader.Options{})
	h := NewAdminHandlers(adminLoader, nil)

	c, rec := newDirectoryRequest(t, "?role=WIZARD")
	require.NoError(t, h.Directory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectory_OutOfRangePageClamps(t *testing.T) {
	adminLoader := loader.NewAdminLoader(
		&staticUserSource{users: directoryFixture()},
		&staticOrgSource{},
		nil, loader.Options{})
	h := NewAdminHandlers(adminLoader, nil)

	c, rec := newDirectoryRequest(t, "?page=99&page_size=2")
	require.NoError(t, h.Directory(c))

	var resp DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page.Page, "page clamps to the last valid page")
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Items, 1)
}
