package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_PlatformAdminAliases(t *testing.T) {
	for _, raw := range []string{"PLATFORM_ADMIN", "PLATFORM_OPERATOR", "platform_admin", " PLATFORM_OPERATOR "} {
		assert.Equal(t, PlatformAdmin, Resolve(raw), "raw=%q", raw)
	}
}

func TestResolve_OrgAdminAliases(t *testing.T) {
	for _, raw := range []string{"ADMIN", "ORGANIZATION_ADMIN", "ORG_ADMIN", "admin"} {
		assert.Equal(t, OrgAdmin, Resolve(raw), "raw=%q", raw)
	}
}

func TestResolve_PrecedenceOverOrgAdmin(t *testing.T) {
	// Platform aliases must never resolve to org admin.
	for _, raw := range []string{"PLATFORM_ADMIN", "PLATFORM_OPERATOR"} {
		assert.NotEqual(t, OrgAdmin, Resolve(raw))
	}
}

func TestResolve_MentorMentee(t *testing.T) {
	assert.Equal(t, Mentor, Resolve("MENTOR"))
	assert.Equal(t, Mentor, Resolve("mentor"))
	assert.Equal(t, Mentee, Resolve("MENTEE"))
}

func TestResolve_UnknownNeverElevates(t *testing.T) {
	for _, raw := range []string{"", "SUPERUSER", "root", "PLATFORM", "ADMINISTRATOR", "mentors"} {
		r := Resolve(raw)
		assert.Equal(t, Unknown, r, "raw=%q", raw)
		assert.False(t, IsAdmin(r))
		assert.False(t, CanManagePlatform(r))
		assert.False(t, CanManageOrg(r))
	}
}

func TestCapabilities(t *testing.T) {
	assert.True(t, CanManagePlatform(PlatformAdmin))
	assert.False(t, CanManagePlatform(OrgAdmin))
	assert.True(t, CanManageOrg(OrgAdmin))
	assert.True(t, CanManageOrg(PlatformAdmin))
	assert.False(t, CanManageOrg(Mentor))
	assert.True(t, IsAdmin(OrgAdmin))
	assert.False(t, IsAdmin(Mentee))
}
