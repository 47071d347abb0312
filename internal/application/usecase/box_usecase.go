package usecase

import (
	"context"

	"github.com/jhoicas/cajas-api/internal/application/dto"
	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

// BoxUseCase lectura de cajas con su saldo actual. Las cajas se administran fuera
// de este servicio; aquí solo se consultan.
type BoxUseCase struct {
	repo     repository.BoxRepository
	userRepo repository.UserRepository
}

// NewBoxUseCase construye el caso de uso.
func NewBoxUseCase(repo repository.BoxRepository, userRepo repository.UserRepository) *BoxUseCase {
	return &BoxUseCase{repo: repo, userRepo: userRepo}
}

// GetByID obtiene una caja. Un usuario sin rol privilegiado solo ve sus cajas permitidas.
func (uc *BoxUseCase) GetByID(ctx context.Context, id, userID string) (*dto.BoxResponse, error) {
	if userID != "" {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !user.CanViewBox(id) {
			return nil, domain.ErrForbidden
		}
	}
	box, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBoxResponse(box), nil
}

func toBoxResponse(b *entity.Box) *dto.BoxResponse {
	return &dto.BoxResponse{
		ID:          b.ID,
		Description: b.Description,
		Balance:     b.Balance,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
