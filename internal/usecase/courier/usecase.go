package courier

import (
	"context"
	"errors"

	"github.com/avito-tech/go-transaction-manager/trm/manager"

	"yandex-team.ru/candytask"
	"yandex-team.ru/candytask/internal/entity"
	"yandex-team.ru/candytask/internal/repository/repositories"
	"yandex-team.ru/candytask/internal/validation"
)

type CourierUseCase struct {
	trm         *manager.Manager
	payload     *validation.PayloadValidator
	CourierRepo *repositories.CourierRepo
}

func New(
	trm *manager.Manager,
	payload *validation.PayloadValidator,
	curstrg *repositories.CourierRepo,
) *CourierUseCase {
	return &CourierUseCase{
		trm:         trm,
		payload:     payload,
		CourierRepo: curstrg,
	}
}

// CreateCouriers validates a raw `{"data": [...]}` batch and persists it in
// one transaction. Any validation failure rejects the whole batch.
func (uc *CourierUseCase) CreateCouriers(ctx context.Context, payload []byte) (*[]entity.Courier, error) {
	op := "usecase.courier.CreateCouriers"

	records, tree := uc.payload.ValidateCouriers(payload)
	if !tree.Empty() {
		return nil, candytask.ErrorWithCode(candytask.OpError(op, tree), candytask.EINVALID)
	}

	toCreate := make([]repositories.CourierToCreateDTO, 0, len(records))
	for _, r := range records {
		toCreate = append(toCreate, repositories.CourierToCreateDTO{
			CourierID:    uint64(r.CourierID),
			CourierType:  r.CourierType,
			Regions:      r.Regions,
			WorkingHours: r.WorkingHours,
		})
	}

	var saved *[]entity.Courier
	var err error

	err = uc.trm.Do(ctx, func(ctx context.Context) error {
		saved, err = uc.CourierRepo.BatchCreate(ctx, toCreate)
		return err
	})
	if err != nil {
		return nil, candytask.OpError(op, err)
	}

	return saved, nil
}

// UpdateCourier applies a partial courier object: absent fields stay
// untouched, present fields must validate.
func (uc *CourierUseCase) UpdateCourier(ctx context.Context, id uint64, payload []byte) (*entity.Courier, error) {
	op := "usecase.courier.UpdateCourier"

	patch, tree := uc.payload.ValidateCourierUpdate(payload)
	if !tree.Empty() {
		return nil, candytask.ErrorWithCode(candytask.OpError(op, tree), candytask.EINVALID)
	}

	upd := repositories.CourierUpdateDTO{
		CourierType:  patch.CourierType,
		Regions:      patch.Regions,
		WorkingHours: patch.WorkingHours,
	}

	var saved *entity.Courier
	var err error

	err = uc.trm.Do(ctx, func(ctx context.Context) error {
		saved, err = uc.CourierRepo.Update(ctx, id, upd)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.CourierNotFoundError) {
			return nil, candytask.ErrorWithCode(candytask.OpError(op, err), candytask.ENOTFOUND)
		}

		return nil, candytask.OpError(op, err)
	}

	return saved, nil
}

func (uc *CourierUseCase) GetById(ctx context.Context, id uint64) (*entity.Courier, error) {
	op := "usecase.courier.GetById"

	courier, err := uc.CourierRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.CourierNotFoundError) {
			return nil, candytask.ErrorWithCode(candytask.OpError(op, err), candytask.ENOTFOUND)
		}

		return nil, candytask.OpError(op, err)
	}

	return courier, nil
}

func (uc *CourierUseCase) PaginatedGetAll(ctx context.Context, offset, limit int32) (*[]entity.Courier, error) {
	op := "usecase.courier.PaginatedGetAll"

	couriers, err := uc.CourierRepo.PaginatedFetchAll(ctx, offset, limit)
	if err != nil {
		return nil, candytask.OpError(op, err)
	}

	return couriers, nil
}
