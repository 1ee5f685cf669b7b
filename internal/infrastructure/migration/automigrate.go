package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.DeviceModel{},
		&models.AppStateModel{},
		&models.TicketModel{},
		&models.WorkdayModel{},
		&models.KDSTicketModel{},
		&models.QueueTokenModel{},
		&models.ProductGroupModel{},
		&models.ProductCategoryModel{},
		&models.ProductModel{},
		&models.TagGroupModel{},
		&models.ProductTagModel{},
		&models.ChargeModel{},
		&models.ChargeMappingModel{},
		&models.PaymentMethodModel{},
	}
}

// Run migrates the on-device schema. The device binary is the only writer,
// so additive AutoMigrate is sufficient.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
