package order

import (
	"context"
	"errors"

	"github.com/avito-tech/go-transaction-manager/trm/manager"

	"yandex-team.ru/candytask"
	"yandex-team.ru/candytask/internal/entity"
	"yandex-team.ru/candytask/internal/repository/repositories"
	"yandex-team.ru/candytask/internal/validation"
)

type OrderUseCase struct {
	trm       *manager.Manager
	payload   *validation.PayloadValidator
	OrderRepo *repositories.OrderRepo
}

func New(
	trm *manager.Manager,
	payload *validation.PayloadValidator,
	ordrepo *repositories.OrderRepo,
) *OrderUseCase {
	return &OrderUseCase{
		trm:       trm,
		payload:   payload,
		OrderRepo: ordrepo,
	}
}

// CreateOrders validates a raw `{"data": [...]}` batch and persists it in
// one transaction. Any validation failure rejects the whole batch.
func (uc *OrderUseCase) CreateOrders(ctx context.Context, payload []byte) (*[]entity.Order, error) {
	op := "usecase.order.CreateOrders"

	records, tree := uc.payload.ValidateOrders(payload)
	if !tree.Empty() {
		return nil, candytask.ErrorWithCode(candytask.OpError(op, tree), candytask.EINVALID)
	}

	toCreate := make([]repositories.OrderToCreateDTO, 0, len(records))
	for _, r := range records {
		toCreate = append(toCreate, repositories.OrderToCreateDTO{
			OrderID:       uint64(r.OrderID),
			Weight:        r.Weight,
			Region:        r.Region,
			DeliveryHours: r.DeliveryHours,
		})
	}

	var saved *[]entity.Order
	var err error

	err = uc.trm.Do(ctx, func(ctx context.Context) error {
		saved, err = uc.OrderRepo.BatchCreate(ctx, toCreate)
		return err
	})
	if err != nil {
		return nil, candytask.OpError(op, err)
	}

	return saved, nil
}

// UpdateOrder applies a partial order object: absent fields stay untouched,
// present fields must validate.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, id uint64, payload []byte) (*entity.Order, error) {
	op := "usecase.order.UpdateOrder"

	patch, tree := uc.payload.ValidateOrderUpdate(payload)
	if !tree.Empty() {
		return nil, candytask.ErrorWithCode(candytask.OpError(op, tree), candytask.EINVALID)
	}

	upd := repositories.OrderUpdateDTO{
		Weight:        patch.Weight,
		Region:        patch.Region,
		DeliveryHours: patch.DeliveryHours,
	}

	var saved *entity.Order
	var err error

	err = uc.trm.Do(ctx, func(ctx context.Context) error {
		saved, err = uc.OrderRepo.Update(ctx, id, upd)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.OrderNotFoundError) {
			return nil, candytask.ErrorWithCode(candytask.OpError(op, err), candytask.ENOTFOUND)
		}

		return nil, candytask.OpError(op, err)
	}

	return saved, nil
}

func (uc *OrderUseCase) GetById(ctx context.Context, id uint64) (*entity.Order, error) {
	op := "usecase.order.GetById"

	order, err := uc.OrderRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.OrderNotFoundError) {
			return nil, candytask.ErrorWithCode(candytask.OpError(op, err), candytask.ENOTFOUND)
		}

		return nil, candytask.OpError(op, err)
	}

	return order, nil
}

func (uc *OrderUseCase) PaginatedGetAll(ctx context.Context, offset, limit int32) (*[]entity.Order, error) {
	op := "usecase.order.PaginatedGetAll"

	orders, err := uc.OrderRepo.PaginatedFetchAll(ctx, offset, limit)
	if err != nil {
		return nil, candytask.OpError(op, err)
	}

	return orders, nil
}

// AvailableOrders returns the availability view rows consumed by assignment.
// Store failures are fatal to the call; there is nothing to recover here.
func (uc *OrderUseCase) AvailableOrders(ctx context.Context) ([]entity.OrderAvailability, error) {
	op := "usecase.order.AvailableOrders"

	rows, err := uc.OrderRepo.AvailableOrders(ctx)
	if err != nil {
		return nil, candytask.OpError(op, err)
	}

	return rows, nil
}
