package mappers

import (
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
)

func UserToDomain(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(model.ID, model.Email, model.DisplayName, user.Role(model.Role), model.Active)
}

func ClientAccessToDomain(model *models.ClientAccessModel) (*client.Access, error) {
	return client.ReconstructAccess(
		model.ID,
		model.ClientID,
		model.ContactName,
		model.Email,
		client.Tier(model.Tier),
		model.Active,
		model.SupportHoursUsed,
		model.PortalUserID,
	)
}

func TaskToDomain(model *models.TaskModel) *task.Task {
	return task.ReconstructTask(
		model.ID,
		model.Title,
		utcPtr(model.DueAt),
		[]uint(model.AssigneeIDs),
		model.CreatedBy,
		model.Completed,
		utcPtr(model.DueSoonNotifiedAt),
		utcPtr(model.OverdueNotifiedAt),
	)
}
