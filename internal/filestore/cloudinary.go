package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps blobs as raw assets in a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	client *http.Client
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{
		cld:    cld,
		folder: folder,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func (s *CloudinaryStore) publicID(name string) string {
	if s.folder == "" {
		return name
	}
	return path.Join(s.folder, name)
}

func (s *CloudinaryStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	counter := &countingReader{r: r}
	res, err := s.cld.Upload.Upload(ctx, counter, uploader.UploadParams{
		PublicID:     s.publicID(name),
		ResourceType: "raw",
		Overwrite:    boolPtr(false),
	})
	if err != nil {
		return 0, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return 0, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return counter.n, nil
}

func (s *CloudinaryStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	asset, err := s.cld.File(s.publicID(name))
	if err != nil {
		return nil, err
	}
	url, err := asset.String()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotExist
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary download: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *CloudinaryStore) Remove(ctx context.Context, name string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.publicID(name),
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res.Error.Message != "" {
		return errors.New("cloudinary destroy failed: " + res.Error.Message)
	}
	// "not found" means the blob was already gone.
	return nil
}
