package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/thiagosouza28/ideart-cloud/internal/audit"
	"github.com/thiagosouza28/ideart-cloud/internal/auth"
	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	"github.com/thiagosouza28/ideart-cloud/internal/cart"
	"github.com/thiagosouza28/ideart-cloud/internal/company"
	"github.com/thiagosouza28/ideart-cloud/internal/config"
	"github.com/thiagosouza28/ideart-cloud/internal/customer"
	"github.com/thiagosouza28/ideart-cloud/internal/events"
	"github.com/thiagosouza28/ideart-cloud/internal/logger"
	"github.com/thiagosouza28/ideart-cloud/internal/migration"
	"github.com/thiagosouza28/ideart-cloud/internal/observability"
	"github.com/thiagosouza28/ideart-cloud/internal/order"
	"github.com/thiagosouza28/ideart-cloud/internal/plan"
	"github.com/thiagosouza28/ideart-cloud/internal/product"
	"github.com/thiagosouza28/ideart-cloud/internal/report"
	"github.com/thiagosouza28/ideart-cloud/internal/seed"
	"github.com/thiagosouza28/ideart-cloud/internal/server"
	"github.com/thiagosouza28/ideart-cloud/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if err := seed.EnsureDefaultCompany(conn); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultCompanyAndAdmin {
				return seed.EnsureDefaultCompanyAndAdmin(conn)
			}
			return nil
		}),
		observability.Module,
		events.Module,
		audit.Module,
		authorization.Module,
		auth.Module,
		company.Module,
		customer.Module,
		order.Module,
		product.Module,
		cart.Module,
		report.Module,
		plan.Module,
		server.Module,
	)
	app.Run()
}
