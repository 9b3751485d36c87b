package cmd

import (
	"log/slog"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/auditrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"
	"marketplace/internal/core/application/services"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use cases. Side channels (audit,
// notifications) run on the base connection, outside any unit of work.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	recorder   *services.AuditRecorder
	dispatcher *services.NotificationDispatcher
	assets     ports.AssetStore
	logger     *slog.Logger
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	push ports.PushTransport,
	assets ports.AssetStore,
	logger *slog.Logger,
) CompositionRoot {
	recorder := services.NewAuditRecorder(auditrepo.NewGormAuditRepository(gormDB), logger)
	dispatcher := services.NewNotificationDispatcher(
		notificationrepo.NewGormNotificationRepository(gormDB),
		userrepo.NewGormUserRepository(gormDB, noTracking{}),
		push,
		logger,
	)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		recorder:   recorder,
		dispatcher: dispatcher,
		assets:     assets,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.recorder, c.dispatcher)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.recorder, c.dispatcher)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.recorder, c.dispatcher)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetDriverAvailabilityCommandHandler(f, c.recorder)
}

func (c *CompositionRoot) CreateUpdateProductCommandHandler() commands.UpdateProductCommandHandler {
	var f commands.ProductUoWFactory = FuncProductUoWFactory(func() commands.ProductUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateProductCommandHandler(f, c.recorder, c.dispatcher)
}

func (c *CompositionRoot) CreateSoftDeleteCommandHandler() commands.SoftDeleteCommandHandler {
	var f commands.TrashUoWFactory = FuncTrashUoWFactory(func() commands.TrashUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSoftDeleteCommandHandler(f, c.recorder)
}

func (c *CompositionRoot) CreateRestoreCommandHandler() commands.RestoreCommandHandler {
	var f commands.TrashUoWFactory = FuncTrashUoWFactory(func() commands.TrashUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRestoreCommandHandler(f, c.recorder)
}

func (c *CompositionRoot) CreatePurgeCommandHandler() commands.PurgeCommandHandler {
	var f commands.TrashUoWFactory = FuncTrashUoWFactory(func() commands.TrashUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgeCommandHandler(f, c.assets, c.recorder)
}

func (c *CompositionRoot) CreateMarkNotificationsReadCommandHandler() commands.MarkNotificationsReadCommandHandler {
	return commands.NewMarkNotificationsReadCommandHandler(
		notificationrepo.NewGormNotificationRepository(c.gormDB),
	)
}

func (c *CompositionRoot) CreateListAuditEntriesQueryHandler() queries.ListAuditEntriesQueryHandler {
	return queries.NewListAuditEntriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(retentionDays int) *jobs.JobManager {
	return jobs.NewJobManager(c.recorder, time.Duration(retentionDays)*24*time.Hour, c.logger)
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncProductUoWFactory func() commands.ProductUoW

func (f FuncProductUoWFactory) Create() commands.ProductUoW {
	return f()
}

type FuncTrashUoWFactory func() commands.TrashUoW

func (f FuncTrashUoWFactory) Create() commands.TrashUoW {
	return f()
}

// noTracking is the aggregate tracker for repositories used outside a unit of
// work, where nothing collects the modified aggregates.
type noTracking struct{}

func (noTracking) TrackAggregate(_ kernel.UUID, _ any) {}
