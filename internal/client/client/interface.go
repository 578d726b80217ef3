package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/models"
)

// Client is the remote document store as seen by the synchronizer. Every
// call may fail; callers treat any error as "remote unavailable".
type Client interface {
	List(ctx context.Context, collection, ownerID, orderField, direction string) ([]models.Record, error)
	Create(ctx context.Context, collection string, fields models.Record) (id string, createdAt time.Time, err error)
	Update(ctx context.Context, collection, id string, patch models.Record) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	PresignUpload(ctx context.Context) (key, url string, err error)
	PresignDownload(ctx context.Context, key string) (url string, err error)
	Close() error
}
