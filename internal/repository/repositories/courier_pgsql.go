package repositories

import (
	"context"
	"errors"
	"time"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"yandex-team.ru/candytask/internal/entity"
	appErrors "yandex-team.ru/candytask/internal/errors"
	"yandex-team.ru/candytask/internal/validation"
	"yandex-team.ru/candytask/pkg/gorm/types"
)

// @migration
type Courier struct {
	CourierID    uint64         `gorm:"primaryKey;column:courier_id"`
	CourierType  string         `gorm:"not null"`
	Regions      pq.Int32Array  `gorm:"type:integer[]"`
	WorkingHours []WorkingHours `gorm:"many2many:couriers_working_hours;foreignKey:CourierID;joinForeignKey:CourierID;References:WorkingHoursID;joinReferences:WorkingHoursID"`
}

func (Courier) TableName() string { return "couriers" }

// @migration
type WorkingHours struct {
	WorkingHoursID uint64     `gorm:"primaryKey;column:working_hours_id"`
	TimeStart      types.Time `gorm:"column:time_start"`
	TimeFinish     types.Time `gorm:"column:time_finish"`
}

func (WorkingHours) TableName() string { return "working_hours" }

var (
	CourierNotFoundError = appErrors.NewInternalError(nil, "Courier not found", true)
)

type CourierRepo struct {
	gorm   *gorm.DB
	getter *trmgorm.CtxGetter
}

func NewCourierRepo(grm *gorm.DB, getter *trmgorm.CtxGetter) *CourierRepo {
	return &CourierRepo{
		gorm:   grm,
		getter: getter,
	}
}

type CourierToCreateDTO struct {
	CourierID    uint64
	CourierType  string
	Regions      []int32
	WorkingHours []validation.Window
}

type CourierUpdateDTO struct {
	CourierType  *string
	Regions      []int32
	WorkingHours []validation.Window // nil leaves the association untouched
}

func (s *CourierRepo) BatchCreate(ctx context.Context, newCouriers []CourierToCreateDTO) (*[]entity.Courier, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	couriers := make([]Courier, 0, len(newCouriers))
	for _, c := range newCouriers {

		wh := make([]WorkingHours, 0, len(c.WorkingHours))
		for _, w := range c.WorkingHours {
			wh = append(wh, WorkingHours{
				TimeStart:  types.NewTime(w.Start.Hour, w.Start.Minute, 0),
				TimeFinish: types.NewTime(w.Finish.Hour, w.Finish.Minute, 0),
			})
		}

		couriers = append(couriers, Courier{
			CourierID:    c.CourierID,
			CourierType:  c.CourierType,
			Regions:      pq.Int32Array(c.Regions),
			WorkingHours: wh,
		})
	}

	if err := db.CreateInBatches(&couriers, 20).Error; err != nil {
		return nil, err
	}

	res := make([]entity.Courier, 0, len(couriers))
	for i := range couriers {
		res = append(res, courierToEntity(&couriers[i]))
	}

	return &res, nil
}

func (s *CourierRepo) FindById(ctx context.Context, id uint64) (*entity.Courier, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	var courier Courier

	err := db.Preload("WorkingHours").First(&courier, "courier_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CourierNotFoundError
		}

		return nil, err
	}

	res := courierToEntity(&courier)

	return &res, nil
}

func (s *CourierRepo) PaginatedFetchAll(ctx context.Context, offset, limit int32) (*[]entity.Courier, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	couriers := []Courier{}

	err := db.Preload("WorkingHours").
		Order("courier_id").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&couriers).Error
	if err != nil {
		return nil, err
	}

	res := make([]entity.Courier, 0, len(couriers))
	for i := range couriers {
		res = append(res, courierToEntity(&couriers[i]))
	}

	return &res, nil
}

func (s *CourierRepo) Update(ctx context.Context, id uint64, upd CourierUpdateDTO) (*entity.Courier, error) {
	db := s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)

	var courier Courier

	err := db.First(&courier, "courier_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CourierNotFoundError
		}

		return nil, err
	}

	if upd.CourierType != nil {
		courier.CourierType = *upd.CourierType
	}
	if upd.Regions != nil {
		courier.Regions = pq.Int32Array(upd.Regions)
	}

	if err := db.Save(&courier).Error; err != nil {
		return nil, err
	}

	if upd.WorkingHours != nil {
		wh := make([]WorkingHours, 0, len(upd.WorkingHours))
		for _, w := range upd.WorkingHours {
			wh = append(wh, WorkingHours{
				TimeStart:  types.NewTime(w.Start.Hour, w.Start.Minute, 0),
				TimeFinish: types.NewTime(w.Finish.Hour, w.Finish.Minute, 0),
			})
		}

		if err := db.Model(&courier).Association("WorkingHours").Replace(&wh); err != nil {
			return nil, err
		}
	}

	return s.FindById(ctx, id)
}

func courierToEntity(c *Courier) entity.Courier {
	wh := []string{}
	for _, t := range c.WorkingHours {
		wh = append(wh, windowString(t.TimeStart, t.TimeFinish))
	}

	return entity.Courier{
		ID:           c.CourierID,
		CourierType:  c.CourierType,
		Regions:      []int32(c.Regions),
		WorkingHours: wh,
	}
}

func windowString(start, finish types.Time) string {
	return time.Time(start).Format("15:04") + "-" + time.Time(finish).Format("15:04")
}
