package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
	"github.com/samber/lo"
)

// acceptedImageTypes lists the sniffed content types accepted for classification.
var acceptedImageTypes = []string{"image/png", "image/jpeg", "image/gif"}

// InspectImage validates an uploaded image and describes it. The image must be a PNG,
// JPEG or GIF no larger than contract.MaxImageBytes.
func InspectImage(fileName string, data []byte) (schema.ClassificationResult, error) {
	meta := schema.ClassificationResult{FileName: filepath.Base(fileName), SizeBytes: int64(len(data))}
	if len(data) == 0 {
		return meta, contract.NewRequestError(contract.ReasonInvalidInput, errors.New("image is empty"))
	}
	if len(data) > contract.MaxImageBytes {
		return meta, contract.NewRequestError(contract.ReasonInvalidInput,
			fmt.Errorf("image is %d bytes, the limit is %d", len(data), contract.MaxImageBytes))
	}

	meta.ContentType = http.DetectContentType(data)
	if !lo.Contains(acceptedImageTypes, meta.ContentType) {
		return meta, contract.NewRequestError(contract.ReasonInvalidInput,
			fmt.Errorf("unsupported image type %s: must be PNG, JPEG or GIF", meta.ContentType))
	}
	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return meta, contract.NewRequestError(contract.ReasonInvalidInput, fmt.Errorf("failed to decode image: %w", err))
	}
	meta.Width = imgCfg.Width
	meta.Height = imgCfg.Height
	return meta, nil
}

// ReadImageFile reads an image from disk, refusing files above the upload limit.
func ReadImageFile(path string) ([]byte, error) {
	if path == "" {
		return nil, contract.NewRequestError(contract.ReasonInvalidInput, errors.New("an image path is required"))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, contract.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// Classify validates the image and requests its label.
func Classify(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, fileName string, data []byte) (schema.ClassificationResult, error) {
	start := time.Now()
	key := requestKey(schema.ClassificationForm, fmt.Sprintf("%x", sha256.Sum256(data)))

	result, err := InspectImage(fileName, data)
	if err != nil {
		recordSubmission(ctx, mgr, schema.ClassificationForm, key, start, false, err)
		return result, err
	}

	label, cached, err := cachedCall(ctx, cfg, mgr, key, func(ctx context.Context) (string, error) {
		return client.Classify(ctx, result.FileName, data)
	})
	recordSubmission(ctx, mgr, schema.ClassificationForm, key, start, cached, err)
	if err != nil {
		return result, err
	}
	result.Label = label
	return result, nil
}

// GetClassification classifies the image file selected in cfg.
func GetClassification(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) (schema.ClassificationResult, error) {
	data, err := ReadImageFile(cfg.ImagePath)
	if err != nil {
		return schema.ClassificationResult{}, err
	}
	return Classify(ctx, cfg, client, mgr, cfg.ImagePath, data)
}
