package handlers

import (
	"monogrid/internal/database"
	"monogrid/internal/exporter"
	"monogrid/internal/pexels"
)

type Handlers struct {
	db       *database.Database
	catalog  *pexels.Client
	exporter *exporter.Exporter
}

func New(db *database.Database, catalog *pexels.Client, exp *exporter.Exporter) *Handlers {
	return &Handlers{
		db:       db,
		catalog:  catalog,
		exporter: exp,
	}
}
