// Package imagehost wraps the external image upload/delete/transform service.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"trailhaven/internal/middleware"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrUnsupportedFile is returned for uploads whose filename is not a
// recognized image extension.
var ErrUnsupportedFile = errors.New("only image files are allowed")

var imageFileRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

// AllowedImageFile reports whether the filename carries an accepted image
// extension (jpg, jpeg, png, gif).
func AllowedImageFile(name string) bool {
	return imageFileRe.MatchString(name)
}

// Preset bundles the transformation applied at upload time.
type Preset struct {
	Transformation string
}

var (
	// CampgroundPreset scales listing photos to 1500x1000.
	CampgroundPreset = Preset{Transformation: "c_scale,w_1500,h_1000"}
	// AvatarPreset scales profile photos to a centered 400x400.
	AvatarPreset = Preset{Transformation: "c_scale,w_400,h_400,g_center"}
)

// Upload is the stored result of a successful upload.
type Upload struct {
	URL      string
	PublicID string
}

// Client is the contract against the external image host: upload with a
// transformation, destroy by public id.
type Client interface {
	Upload(ctx context.Context, r io.Reader, filename string, preset Preset) (*Upload, error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryClient struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary returns a Client backed by the Cloudinary API.
func NewCloudinary(cloudName, apiKey, apiSecret string) (Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryClient{cld: cld}, nil
}

func (c *cloudinaryClient) Upload(ctx context.Context, r io.Reader, filename string, preset Preset) (*Upload, error) {
	if !AllowedImageFile(filename) {
		return nil, ErrUnsupportedFile
	}

	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Transformation: preset.Transformation,
		Moderation:     "webpurify",
	})
	if err != nil {
		middleware.ImageHostErrors.WithLabelValues("upload").Inc()
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		middleware.ImageHostErrors.WithLabelValues("upload").Inc()
		return nil, fmt.Errorf("image upload failed: %s", resp.Error.Message)
	}

	return &Upload{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (c *cloudinaryClient) Destroy(ctx context.Context, publicID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		middleware.ImageHostErrors.WithLabelValues("destroy").Inc()
		return fmt.Errorf("image destroy failed: %w", err)
	}
	// "not found" means the resource is already gone; destroying it again is
	// a no-op, not a failure.
	if resp.Result != "ok" && resp.Result != "not found" {
		middleware.ImageHostErrors.WithLabelValues("destroy").Inc()
		return fmt.Errorf("image destroy failed: %s", resp.Result)
	}
	return nil
}
