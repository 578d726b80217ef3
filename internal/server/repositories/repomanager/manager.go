// Package repomanager vends repository implementations bound to a
// connection and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studysync/internal/dbx"
	"github.com/dmitrijs2005/studysync/internal/server/repositories/documents"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
}
