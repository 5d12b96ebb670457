package main

import (
	"log"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"yandex-team.ru/candytask/config"
	"yandex-team.ru/candytask/internal/http"
	"yandex-team.ru/candytask/internal/http/controller"
	"yandex-team.ru/candytask/internal/repository/repositories"
	"yandex-team.ru/candytask/internal/usecase/courier"
	"yandex-team.ru/candytask/internal/usecase/order"
	"yandex-team.ru/candytask/internal/validation"
	"yandex-team.ru/candytask/pkg/db/postgresql"
	"yandex-team.ru/candytask/pkg/logger"
)

func main() {

	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	appConf, err := config.NewAppConfig()
	if err != nil {
		log.Fatalf("app config: %v", err)
	}

	logg, cleanup, err := logger.New(appConf.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer cleanup()

	dbConf, err := config.DatabaseConf()
	if err != nil {
		logg.Fatal("database config", zap.Error(err))
	}

	schemaConf, err := config.NewSchemaConfig()
	if err != nil {
		logg.Fatal("schema config", zap.Error(err))
	}

	db := postgresql.GetInstance(
		dbConf.Pgsql.Host,
		dbConf.Pgsql.Username,
		dbConf.Pgsql.Password,
		dbConf.Pgsql.Database,
		dbConf.Pgsql.Port,
	)

	if err := db.AutoMigrate(
		&repositories.Courier{},
		&repositories.WorkingHours{},
		&repositories.Order{},
		&repositories.DeliveryHours{},
	); err != nil {
		logg.Fatal("migrate", zap.Error(err))
	}

	courierRepo := repositories.NewCourierRepo(db, trmgorm.DefaultCtxGetter)
	orderRepo := repositories.NewOrderRepo(db, trmgorm.DefaultCtxGetter)

	m, err := manager.New(trmgorm.NewDefaultFactory(db))
	if err != nil {
		logg.Fatal("transaction manager", zap.Error(err))
	}

	payloadValidator := validation.NewPayloadValidator(schemaConf.Limits())

	courierUseCase := courier.New(m, payloadValidator, courierRepo)
	orderUseCase := order.New(m, payloadValidator, orderRepo)

	cs := http.Controllers{
		CourierController: controller.NewCourierController(courierUseCase),
		OrderController:   controller.NewOrderController(orderUseCase),
	}
	r := http.NewRouter(cs)

	e := http.NewHttpServer(appConf, logg)
	r.SetupRoutes(e)

	logg.Info("starting server", zap.String("addr", appConf.Addr))
	e.Logger.Fatal(e.Start(appConf.Addr))
}
