package composite

import (
	opensearchclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/repository/opensearch"
	"github.com/kingrain94/restaurant-saas/internal/repository/postgres"
)

// compositeRepository pairs the system of record with the product search index.
type compositeRepository struct {
	repository.PostgresRepository
	searchRepo repository.SearchRepository
}

func NewCompositeRepository(dbConnections *config.DatabaseConnections, osClient *opensearchclient.Client, osConfig *config.OpenSearchConfig) repository.Repository {
	return New(postgres.NewPostgresRepository(dbConnections), opensearch.NewRepository(osClient, osConfig))
}

func New(postgresRepo repository.PostgresRepository, searchRepo repository.SearchRepository) repository.Repository {
	return &compositeRepository{
		PostgresRepository: postgresRepo,
		searchRepo:         searchRepo,
	}
}

func (r *compositeRepository) Search() repository.SearchRepository {
	return r.searchRepo
}
