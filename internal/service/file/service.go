package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
)

var (
	ErrInvalidImageType = apperror.Validation("INVALID_IMAGE_TYPE", "invalid file type: only jpg, jpeg, png allowed")
	ErrInvalidProofType = apperror.Validation("INVALID_PROOF_TYPE", "invalid file type: only jpg, jpeg, png, pdf allowed")
	ErrUndecodableImage = apperror.Validation("UNDECODABLE_IMAGE", "file is not a readable image")
)

const (
	// selfies are re-encoded as JPEG no larger than this on the long side
	selfieMaxDimension = 1280
	selfieMaxBytes     = 200 * 1024
)

type FileService interface {
	// UploadSelfie stores the photo taken at a check-in or check-out and
	// returns its storage reference.
	UploadSelfie(ctx context.Context, employeeID string, date time.Time, kind string, file io.Reader, filename string) (string, error)

	// UploadPaymentProof stores a transfer receipt for a payroll payment.
	UploadPaymentProof(ctx context.Context, payrollID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// UploadSelfie always stores a JPEG: the image is downscaled to
// selfieMaxDimension and its quality lowered until it fits selfieMaxBytes.
func (s *fileServiceImpl) UploadSelfie(ctx context.Context, employeeID string, date time.Time, kind string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidImageType
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, selfieMaxDimension, selfieMaxBytes)
	if err != nil {
		return "", err
	}

	// attendance/{date}/{employeeID}-{kind}-{unix}.jpg
	newFilename := fmt.Sprintf("%s-%s-%d.jpg", employeeID, kind, s.now().Unix())
	key := path.Join("attendance", date.Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload selfie: %w", err)
	}
	return uploadedPath, nil
}

var proofContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

func (s *fileServiceImpl) UploadPaymentProof(ctx context.Context, payrollID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := proofContentTypes[ext]
	if !ok {
		return "", ErrInvalidProofType
	}

	key := path.Join("payments", payrollID, uuid.New().String()+ext)
	uploadedPath, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}
	return uploadedPath, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// compressImage decodes buffer, shrinks it so neither side exceeds maxDim and
// re-encodes it as JPEG, stepping quality down from 85 to 50 until the result
// fits maxBytes. The last attempt is returned if nothing fits.
func compressImage(buffer []byte, maxDim int, maxBytes int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxDim || h > maxDim {
		if w >= h {
			img = resizeImage(img, maxDim, h*maxDim/w)
		} else {
			img = resizeImage(img, w*maxDim/h, maxDim)
		}
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()
		if len(compressed) <= maxBytes {
			break
		}
	}
	return compressed, nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
