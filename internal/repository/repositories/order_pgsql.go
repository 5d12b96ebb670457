package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"yandex-team.ru/candytask/internal/entity"
	appErrors "yandex-team.ru/candytask/internal/errors"
	"yandex-team.ru/candytask/internal/validation"
	"yandex-team.ru/candytask/pkg/gorm/types"
)

// @migration
type Order struct {
	OrderID       uint64          `gorm:"primaryKey;column:order_id"`
	CourierID     *uint64         `gorm:"column:courier_id"`
	Weight        float64         `gorm:"not null"`
	Region        int32           `gorm:"not null"`
	DeliveryHours []DeliveryHours `gorm:"many2many:orders_delivery_hours;foreignKey:OrderID;joinForeignKey:OrderID;References:DeliveryHoursID;joinReferences:DeliveryHoursID"`
}

func (Order) TableName() string { return "orders" }

// @migration
type DeliveryHours struct {
	DeliveryHoursID uint64     `gorm:"primaryKey;column:delivery_hours_id"`
	TimeStart       types.Time `gorm:"column:time_start"`
	TimeFinish      types.Time `gorm:"column:time_finish"`
}

func (DeliveryHours) TableName() string { return "delivery_hours" }

var (
	OrderNotFoundError    = appErrors.NewInternalError(nil, "Order not found", true)
	StoreUnavailableError = appErrors.NewInternalError(nil, "Store unavailable", false)
	SchemaMismatchError   = appErrors.NewInternalError(nil, "Store schema mismatch", false)
)

type OrderRepo struct {
	gorm   *gorm.DB
	getter *trmgorm.CtxGetter
}

func NewOrderRepo(grm *gorm.DB, getter *trmgorm.CtxGetter) *OrderRepo {
	return &OrderRepo{
		gorm:   grm,
		getter: getter,
	}
}

type OrderToCreateDTO struct {
	OrderID       uint64
	Weight        float64
	Region        int32
	DeliveryHours []validation.Window
}

type OrderUpdateDTO struct {
	Weight        *float64
	Region        *int32
	DeliveryHours []validation.Window // nil leaves the association untouched
}

func (s *OrderRepo) BatchCreate(ctx context.Context, newOrders []OrderToCreateDTO) (*[]entity.Order, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	orders := make([]Order, 0, len(newOrders))
	for _, o := range newOrders {

		dh := make([]DeliveryHours, 0, len(o.DeliveryHours))
		for _, w := range o.DeliveryHours {
			dh = append(dh, DeliveryHours{
				TimeStart:  types.NewTime(w.Start.Hour, w.Start.Minute, 0),
				TimeFinish: types.NewTime(w.Finish.Hour, w.Finish.Minute, 0),
			})
		}

		orders = append(orders, Order{
			OrderID:       o.OrderID,
			Weight:        o.Weight,
			Region:        o.Region,
			DeliveryHours: dh,
		})
	}

	if err := db.CreateInBatches(&orders, 20).Error; err != nil {
		return nil, err
	}

	res := make([]entity.Order, 0, len(orders))
	for i := range orders {
		res = append(res, orderToEntity(&orders[i]))
	}

	return &res, nil
}

func (s *OrderRepo) FindById(ctx context.Context, id uint64) (*entity.Order, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	var order Order

	err := db.Preload("DeliveryHours").First(&order, "order_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, OrderNotFoundError
		}

		return nil, err
	}

	res := orderToEntity(&order)

	return &res, nil
}

func (s *OrderRepo) PaginatedFetchAll(ctx context.Context, offset, limit int32) (*[]entity.Order, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	orders := []Order{}

	err := db.Preload("DeliveryHours").
		Order("order_id").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	res := make([]entity.Order, 0, len(orders))
	for i := range orders {
		res = append(res, orderToEntity(&orders[i]))
	}

	return &res, nil
}

func (s *OrderRepo) Update(ctx context.Context, id uint64, upd OrderUpdateDTO) (*entity.Order, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	var order Order

	err := db.First(&order, "order_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, OrderNotFoundError
		}

		return nil, err
	}

	if upd.Weight != nil {
		order.Weight = *upd.Weight
	}
	if upd.Region != nil {
		order.Region = *upd.Region
	}

	if err := db.Save(&order).Error; err != nil {
		return nil, err
	}

	if upd.DeliveryHours != nil {
		dh := make([]DeliveryHours, 0, len(upd.DeliveryHours))
		for _, w := range upd.DeliveryHours {
			dh = append(dh, DeliveryHours{
				TimeStart:  types.NewTime(w.Start.Hour, w.Start.Minute, 0),
				TimeFinish: types.NewTime(w.Finish.Hour, w.Finish.Minute, 0),
			})
		}

		if err := db.Model(&order).Association("DeliveryHours").Replace(&dh); err != nil {
			return nil, err
		}
	}

	return s.FindById(ctx, id)
}

// availableOrdersQuery reconstructs every order's delivery windows from the
// normalized join in one statement. The LEFT JOIN keeps orders without
// windows in the result; ARRAY_AGG over their single unmatched row would
// yield {NULL}, which ARRAY_REMOVE strips back to an empty array.
const availableOrdersQuery = `
	SELECT
		"o"."order_id" AS "order_id",
		"o"."courier_id" AS "courier_id",
		"o"."weight" AS "weight",
		"o"."region" AS "region",
		ARRAY_REMOVE(ARRAY_AGG("dh"."time_start"), NULL) AS "time_start",
		ARRAY_REMOVE(ARRAY_AGG("dh"."time_finish"), NULL) AS "time_finish"
	FROM "orders" AS "o"
	LEFT JOIN ("orders_delivery_hours" AS "odh"
		JOIN "delivery_hours" AS "dh"
			ON "dh"."delivery_hours_id" = "odh"."delivery_hours_id")
		ON "o"."order_id" = "odh"."order_id"
	GROUP BY "o"."order_id"
	ORDER BY "o"."order_id"`

type availableOrderRow struct {
	OrderID    uint64         `gorm:"column:order_id"`
	CourierID  *uint64        `gorm:"column:courier_id"`
	Weight     float64        `gorm:"column:weight"`
	Region     int32          `gorm:"column:region"`
	TimeStart  pq.StringArray `gorm:"column:time_start;type:time[]"`
	TimeFinish pq.StringArray `gorm:"column:time_finish;type:time[]"`
}

// AvailableOrders returns one row per order with its aggregated delivery
// windows, zero-window orders included. This is the single read issued per
// call; store failures surface as StoreUnavailableError or
// SchemaMismatchError and are fatal to the call.
func (s *OrderRepo) AvailableOrders(ctx context.Context) ([]entity.OrderAvailability, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	rows := []availableOrderRow{}

	if err := db.Raw(availableOrdersQuery).Scan(&rows).Error; err != nil {
		return nil, classifyStoreError(err)
	}

	res := make([]entity.OrderAvailability, 0, len(rows))
	for _, r := range rows {

		starts, err := clocksFromTimes(r.TimeStart)
		if err != nil {
			return nil, err
		}

		finishes, err := clocksFromTimes(r.TimeFinish)
		if err != nil {
			return nil, err
		}

		if len(starts) != len(finishes) {
			SchemaMismatchError.Err = errors.New("start and finish arrays differ in length")
			return nil, SchemaMismatchError
		}

		res = append(res, entity.OrderAvailability{
			OrderID:   r.OrderID,
			CourierID: r.CourierID,
			Weight:    r.Weight,
			Region:    r.Region,
			Starts:    starts,
			Finishes:  finishes,
		})
	}

	return res, nil
}

func orderToEntity(o *Order) entity.Order {
	dh := []string{}
	for _, t := range o.DeliveryHours {
		dh = append(dh, windowString(t.TimeStart, t.TimeFinish))
	}

	return entity.Order{
		ID:            o.OrderID,
		CourierID:     o.CourierID,
		Weight:        o.Weight,
		Region:        o.Region,
		DeliveryHours: dh,
	}
}

func clocksFromTimes(values []string) ([]validation.Clock, error) {
	clocks := make([]validation.Clock, 0, len(values))

	for _, v := range values {
		t, err := time.Parse(types.TimeFormat, v)
		if err != nil {
			SchemaMismatchError.Err = err
			return nil, SchemaMismatchError
		}

		clocks = append(clocks, validation.Clock{Hour: t.Hour(), Minute: t.Minute()})
	}

	return clocks, nil
}

// classifyStoreError splits the one failure mode we can name (schema drift,
// postgres error class 42) from everything else, which from this layer is an
// unavailable store.
func classifyStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "42") {
		SchemaMismatchError.Err = err
		return SchemaMismatchError
	}

	StoreUnavailableError.Err = err
	return StoreUnavailableError
}
