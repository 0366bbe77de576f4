package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

func designerIdentity() *auth.Identity {
	return &auth.Identity{
		UserID:         uuid.New(),
		Email:          "designer@acme.test",
		Role:           domain.RoleDesigner,
		OrganizationID: uuid.New(),
	}
}

func validStructure() domain.TemplateStructure {
	return domain.TemplateStructure{
		Steps: []domain.TemplateStep{
			{
				Name:     "Intake",
				Position: 1,
				Actions: []domain.TemplateAction{
					{Name: "Upload form", Position: 1, Type: domain.ActionTypeFileUpload},
				},
			},
		},
	}
}

func TestTemplateCRUD(t *testing.T) {
	repo := newMemoryTemplateRepo()
	svc := NewTemplateService(repo, zap.NewNop())
	ctx := context.Background()
	designer := designerIdentity()

	tpl, err := svc.Create(ctx, designer, "Intake flow", "standard intake", validStructure())
	require.NoError(t, err)
	assert.Equal(t, designer.OrganizationID.String(), tpl.OrganizationID)
	assert.Equal(t, designer.UserID.String(), tpl.CreatedBy)

	got, err := svc.Get(ctx, designer, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intake flow", got.Name)

	list, err := svc.List(ctx, designer)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Update(ctx, designer, tpl.ID, "Intake flow v2", "", validStructure()))
	got, err = svc.Get(ctx, designer, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intake flow v2", got.Name)

	require.NoError(t, svc.Delete(ctx, designer, tpl.ID))
	_, err = svc.Get(ctx, designer, tpl.ID)
	requireDomainError(t, err, apperrors.KindNotFound)
}

func TestTemplateRequiresDesignCapability(t *testing.T) {
	repo := newMemoryTemplateRepo()
	svc := NewTemplateService(repo, zap.NewNop())
	ctx := context.Background()

	staff := &auth.Identity{
		UserID:         uuid.New(),
		Email:          "staff@acme.test",
		Role:           domain.RoleStaff,
		OrganizationID: uuid.New(),
	}

	_, err := svc.Create(ctx, staff, "X", "", validStructure())
	requireDomainError(t, err, apperrors.KindForbidden)
	_, err = svc.List(ctx, staff)
	requireDomainError(t, err, apperrors.KindForbidden)
	err = svc.Delete(ctx, staff, uuid.NewString())
	requireDomainError(t, err, apperrors.KindForbidden)
}

func TestTemplateCrossOrganizationReadsAsAbsent(t *testing.T) {
	repo := newMemoryTemplateRepo()
	svc := NewTemplateService(repo, zap.NewNop())
	ctx := context.Background()

	owner := designerIdentity()
	tpl, err := svc.Create(ctx, owner, "Private", "", validStructure())
	require.NoError(t, err)

	outsider := designerIdentity()
	_, err = svc.Get(ctx, outsider, tpl.ID)
	requireDomainError(t, err, apperrors.KindNotFound)
	err = svc.Delete(ctx, outsider, tpl.ID)
	requireDomainError(t, err, apperrors.KindNotFound)
}

func TestTemplateStructureValidation(t *testing.T) {
	repo := newMemoryTemplateRepo()
	svc := NewTemplateService(repo, zap.NewNop())
	ctx := context.Background()
	designer := designerIdentity()

	_, err := svc.Create(ctx, designer, "Empty", "", domain.TemplateStructure{})
	requireDomainError(t, err, apperrors.KindValidation)

	_, err = svc.Create(ctx, designer, "No actions", "", domain.TemplateStructure{
		Steps: []domain.TemplateStep{{Name: "Lonely", Position: 1}},
	})
	requireDomainError(t, err, apperrors.KindValidation)

	_, err = svc.Create(ctx, designer, "Nameless", "", domain.TemplateStructure{
		Steps: []domain.TemplateStep{{
			Position: 1,
			Actions:  []domain.TemplateAction{{Name: "A", Position: 1, Type: domain.ActionTypeReview}},
		}},
	})
	requireDomainError(t, err, apperrors.KindValidation)
}
