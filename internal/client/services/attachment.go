package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/netx"
)

var ErrOffline = errors.New("remote store is not configured")

// AttachmentService moves files through presigned object storage URLs.
// Unlike records, attachments need the remote store to be reachable.
type AttachmentService struct {
	remote client.Client
	http   *http.Client
}

func NewAttachmentService(remote client.Client, httpClient *http.Client) *AttachmentService {
	return &AttachmentService{remote: remote, http: httpClient}
}

// Upload sends the file at path and returns its storage key.
func (a *AttachmentService) Upload(ctx context.Context, path string) (string, error) {
	if a.remote == nil {
		return "", ErrOffline
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	key, url, err := a.remote.PresignUpload(ctx)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}

	if err := netx.Upload(ctx, a.http, url, f, mime.TypeByExtension(filepath.Ext(path))); err != nil {
		return "", err
	}
	return key, nil
}

// Download writes the object stored under key to w.
func (a *AttachmentService) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	if a.remote == nil {
		return 0, ErrOffline
	}

	url, err := a.remote.PresignDownload(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("presign download: %w", err)
	}
	return netx.Download(ctx, a.http, url, w)
}
