package service

import (
	"net/http"
	"testing"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationCreate(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.test", entity.UserRoleUser)

	t.Run("with first admin", func(t *testing.T) {
		res, err := f.orgs.Create(f.ctx, &dto.CreateOrganizationRequest{Name: "  Acme  ", AdminEmail: "OWNER@acme.test"})
		require.NoError(t, err)
		assert.Equal(t, "Acme", res.Name)
		assert.Equal(t, intent.LocaleMulti, res.ChatLocale)

		mine, err := f.orgs.ListMine(f.ctx, owner)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, res.Id, mine[0].Id)
		assert.Equal(t, "admin", mine[0].MyRole)
	})

	t.Run("unknown locale", func(t *testing.T) {
		_, err := f.orgs.Create(f.ctx, &dto.CreateOrganizationRequest{Name: "Bad", ChatLocale: "klingon"})
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	})

	t.Run("unknown admin", func(t *testing.T) {
		_, err := f.orgs.Create(f.ctx, &dto.CreateOrganizationRequest{Name: "Ghost", AdminEmail: "nobody@acme.test"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestOrganizationAccess(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)
	outsider := f.user(t, "outsider@acme.test", entity.UserRoleUser)
	root := f.user(t, "root@acme.test", entity.UserRoleSuperAdmin)

	tests := []struct {
		name    string
		actor   Actor
		role    string
		wantErr error
	}{
		{name: "admin", actor: admin, role: "admin"},
		{name: "employee", actor: employee, role: "employee"},
		{name: "outsider", actor: outsider, wantErr: ErrNotMember},
		{name: "superadmin is implicit admin", actor: root, role: "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.orgs.Get(f.ctx, tt.actor, org.Id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, res.MyRole)
		})
	}

	_, err := f.orgs.Get(f.ctx, root, uuid.New())
	assert.ErrorIs(t, err, ErrOrganizationNotFound)

	_, err = f.orgs.CreateService(f.ctx, employee, &dto.CreateServiceRequest{OrganizationId: org.Id, Name: "Cleaning"})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestOrganizationServices(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)
	other, _, _ := f.team(t, intent.LocaleItalian)

	for _, name := range []string{"Security", "Cleaning"} {
		_, err := f.orgs.CreateService(f.ctx, admin, &dto.CreateServiceRequest{OrganizationId: org.Id, Name: name})
		require.NoError(t, err)
	}
	foreign := f.service(t, other, "Reception")

	list, err := f.orgs.ListServices(f.ctx, employee, org.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cleaning", list[0].Name)
	assert.Equal(t, "Security", list[1].Name)

	err = f.orgs.DeleteService(f.ctx, admin, org.Id, foreign.Id)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	require.NoError(t, f.orgs.DeleteService(f.ctx, admin, org.Id, list[0].Id))
	list, err = f.orgs.ListServices(f.ctx, employee, org.Id)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrganizationMembers(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)
	newcomer := f.user(t, "new@acme.test", entity.UserRoleUser)

	member, err := f.orgs.AddMember(f.ctx, admin, &dto.AddMemberRequest{OrganizationId: org.Id, Email: "new@acme.test", Role: "employee"})
	require.NoError(t, err)
	assert.Equal(t, newcomer.UserID, member.UserId)
	assert.Equal(t, "new@acme.test", member.Email)

	_, err = f.orgs.AddMember(f.ctx, admin, &dto.AddMemberRequest{OrganizationId: org.Id, Email: "new@acme.test", Role: "admin"})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = f.orgs.AddMember(f.ctx, admin, &dto.AddMemberRequest{OrganizationId: org.Id, Email: "missing@acme.test", Role: "employee"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.orgs.AddMember(f.ctx, employee, &dto.AddMemberRequest{OrganizationId: org.Id, Email: "new@acme.test", Role: "employee"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	members, err := f.orgs.ListMembers(f.ctx, admin, org.Id)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	emails, err := f.orgs.AdminEmails(f.ctx, org.Id)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Contains(t, emails[0], "admin-")
}

func TestOrganizationKeepsLastAdmin(t *testing.T) {
	f := newFixture(t)
	org, admin, employee := f.team(t, intent.LocaleEnglish)

	err := f.orgs.RemoveMember(f.ctx, admin, org.Id, admin.UserID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	_, err = f.orgs.UpdateMemberRole(f.ctx, admin, &dto.UpdateMemberRoleRequest{OrganizationId: org.Id, UserId: admin.UserID, Role: "employee"})
	assert.ErrorIs(t, err, ErrLastAdmin)

	promoted, err := f.orgs.UpdateMemberRole(f.ctx, admin, &dto.UpdateMemberRoleRequest{OrganizationId: org.Id, UserId: employee.UserID, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", promoted.Role)
	assert.NotEmpty(t, promoted.Email)

	require.NoError(t, f.orgs.RemoveMember(f.ctx, employee, org.Id, admin.UserID))
	_, err = f.orgs.Get(f.ctx, admin, org.Id)
	assert.ErrorIs(t, err, ErrNotMember)

	err = f.orgs.RemoveMember(f.ctx, employee, org.Id, uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestOrganizationChatSettings(t *testing.T) {
	f := newFixture(t)
	org, _, _ := f.team(t, intent.LocaleEnglish)

	before, err := f.orgs.Organization(f.ctx, org.Id)
	require.NoError(t, err)
	assert.False(t, f.matchers.ForOrganization(before).Classify("zorp zorp").Matched())

	_, err = f.orgs.UpdateChatSettings(f.ctx, &dto.UpdateChatSettingsRequest{
		OrganizationId: org.Id,
		ChatLocale:     intent.LocaleEnglish,
		ChatPhrases:    map[string][]string{"start": {"zorp zorp"}},
	})
	require.NoError(t, err)

	after, err := f.orgs.Organization(f.ctx, org.Id)
	require.NoError(t, err)
	assert.Equal(t, intent.Match(intent.ActionStart, ""), f.matchers.ForOrganization(after).Classify("zorp zorp"))

	_, err = f.orgs.UpdateChatSettings(f.ctx, &dto.UpdateChatSettingsRequest{
		OrganizationId: org.Id,
		ChatLocale:     intent.LocaleEnglish,
		ChatPhrases:    map[string][]string{"dance": {"boogie"}},
	})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = f.orgs.UpdateChatSettings(f.ctx, &dto.UpdateChatSettingsRequest{OrganizationId: uuid.New(), ChatLocale: intent.LocaleEnglish})
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestOrganizationDelete(t *testing.T) {
	f := newFixture(t)
	org, admin, _ := f.team(t, intent.LocaleEnglish)

	all, err := f.orgs.ListAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.orgs.Delete(f.ctx, org.Id))
	assert.ErrorIs(t, f.orgs.Delete(f.ctx, org.Id), ErrOrganizationNotFound)

	mine, err := f.orgs.ListMine(f.ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
