package cmd

import (
	"log/slog"
	"os"

	httpin "potrack/internal/adapters/in/http"
	"potrack/internal/adapters/out/blob"
	"potrack/internal/adapters/out/notify"
	"potrack/internal/adapters/out/postgres"
	"potrack/internal/adapters/out/postgres/counterrepo"
	"potrack/internal/adapters/out/postgres/userrepo"
	"potrack/internal/adapters/out/render"
	"potrack/internal/core/application/usecases/commands"
	"potrack/internal/core/application/usecases/queries"
	"potrack/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	issuer     *counterrepo.GormSequenceIssuer
	hub        *notify.Hub
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		issuer:     counterrepo.NewGormSequenceIssuer(gormDB),
		hub:        notify.NewHub(logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) Hub() *notify.Hub {
	return c.hub
}

func (c *CompositionRoot) poUoWFactory() commands.POUoWFactory {
	return FuncPOUoWFactory(func() commands.POUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreatePOCommandHandler() commands.CreatePOCommandHandler {
	return commands.NewCreatePOCommandHandler(c.poUoWFactory(), c.issuer, c.hub, c.logger)
}

func (c *CompositionRoot) CreateAddMachineCommandHandler() commands.AddMachineCommandHandler {
	return commands.NewAddMachineCommandHandler(c.poUoWFactory(), c.issuer, c.hub, c.logger)
}

func (c *CompositionRoot) CreateUpdateMachineStageCommandHandler() commands.UpdateMachineStageCommandHandler {
	return commands.NewUpdateMachineStageCommandHandler(c.poUoWFactory(), c.issuer, c.hub, c.logger)
}

func (c *CompositionRoot) CreateCompleteMachineStageCommandHandler() commands.CompleteMachineStageCommandHandler {
	return commands.NewCompleteMachineStageCommandHandler(c.poUoWFactory(), c.hub, c.logger)
}

func (c *CompositionRoot) CreateAdvancePOStageCommandHandler() commands.AdvancePOStageCommandHandler {
	return commands.NewAdvancePOStageCommandHandler(c.poUoWFactory(), c.hub, c.logger)
}

func (c *CompositionRoot) CreateFinalizePOCommandHandler() commands.FinalizePOCommandHandler {
	return commands.NewFinalizePOCommandHandler(c.poUoWFactory(), c.hub, c.logger)
}

func (c *CompositionRoot) CreateGetPOQueryHandler() queries.GetPOQueryHandler {
	return queries.NewGetPOQueryHandler(c.uowFactory.Create().PORepository())
}

func (c *CompositionRoot) CreateListPOsQueryHandler() queries.ListPOsQueryHandler {
	return queries.NewListPOsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAvailableMachinesQueryHandler() queries.AvailableMachinesQueryHandler {
	return queries.NewAvailableMachinesQueryHandler(c.uowFactory.Create().PORepository())
}

func (c *CompositionRoot) CreateUserRepository() *userrepo.GormUserRepository {
	return userrepo.NewGormUserRepository(c.gormDB)
}

func (c *CompositionRoot) CreateBlobStore() (*blob.DiskStore, error) {
	return blob.NewDiskStore(c.config.UploadsDir)
}

func (c *CompositionRoot) CreateDocumentRenderer() *render.TextRenderer {
	return render.NewTextRenderer()
}

func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	blobStore, err := c.CreateBlobStore()
	if err != nil {
		return nil, err
	}

	return httpin.NewServer(
		c.CreateCreatePOCommandHandler(),
		c.CreateAddMachineCommandHandler(),
		c.CreateUpdateMachineStageCommandHandler(),
		c.CreateCompleteMachineStageCommandHandler(),
		c.CreateAdvancePOStageCommandHandler(),
		c.CreateFinalizePOCommandHandler(),
		c.CreateGetPOQueryHandler(),
		c.CreateListPOsQueryHandler(),
		c.CreateAvailableMachinesQueryHandler(),
		c.CreateUserRepository(),
		blobStore,
		c.CreateDocumentRenderer(),
		c.hub,
		c.config.JWTSecret,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	digest := jobs.NewProgressDigestJob(c.gormDB, c.hub, c.config.DigestSchedule, c.logger)
	return jobs.NewJobManager(digest)
}

type FuncPOUoWFactory func() commands.POUoW

func (f FuncPOUoWFactory) Create() commands.POUoW {
	return f()
}
