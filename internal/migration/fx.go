package migration

import (
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"github.com/rextra/rextra/internal/config"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	"github.com/rextra/rextra/internal/seed"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql run in dev mode without versioned migrations.
			if err := conn.AutoMigrate(
				&pricingdomain.PurchaseConfig{},
				&pricingdomain.PricingTier{},
				&bundledomain.BundlePackage{},
				&memberdomain.Member{},
				&professiondomain.Profession{},
				&feedbackdomain.Feedback{},
				&tokenledgerdomain.TokenTransaction{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsurePricingConfig(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
