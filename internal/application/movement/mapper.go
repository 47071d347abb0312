package movement

import (
	"github.com/jhoicas/cajas-api/internal/application/dto"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:                m.ID,
		Number:            m.Number,
		OriginBoxID:       m.OriginBoxID,
		DestinationBoxID:  m.DestinationBoxID,
		OriginAmount:      m.OriginAmount,
		DestinationAmount: m.DestinationAmount,
		Observation:       m.Observation,
		Active:            m.Active,
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toJoinedResponse(j *entity.JoinedMovement) *dto.JoinedMovementResponse {
	return &dto.JoinedMovementResponse{
		MovementResponse: *toMovementResponse(&j.Movement),
		OriginBox:        toBoxResponse(&j.OriginBox),
		DestinationBox:   toBoxResponse(&j.DestinationBox),
		Creator:          toUserSummary(&j.Creator),
		Updater:          toUserSummary(&j.Updater),
	}
}

func toBoxResponse(b *entity.Box) dto.BoxResponse {
	return dto.BoxResponse{
		ID:          b.ID,
		Description: b.Description,
		Balance:     b.Balance,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toUserSummary(u *entity.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
