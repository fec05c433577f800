package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"photohash/internal/database"
	"photohash/internal/imageprocessing"
	"photohash/internal/phash"
)

type Handler struct {
	DB             *database.HashCache
	Comparator     *phash.Comparator
	MaxDistance    int
	MaxUploadBytes int64
	Log            *zap.Logger
}

// HashResponse is returned by /hash.
type HashResponse struct {
	Hash             string `json:"hash"`
	Tagged           string `json:"tagged"`
	Config           string `json:"config"`
	Bits             int    `json:"bits"`
	Cached           bool   `json:"cached"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// CompareResponse is returned by /compare.
type CompareResponse struct {
	Hash1            string  `json:"hash1"`
	Hash2            string  `json:"hash2"`
	Distance         int     `json:"distance"`
	Similarity       float64 `json:"similarity"`
	Similar          bool    `json:"similar"`
	Threshold        int     `json:"threshold"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}

// DistanceRequest is the body of /distance. Hashes may be bare hex or tagged.
type DistanceRequest struct {
	HashA     string `json:"hash_a" binding:"required"`
	HashB     string `json:"hash_b" binding:"required"`
	Threshold *int   `json:"threshold"`
}

// DistanceResponse is returned by /distance.
type DistanceResponse struct {
	Distance  int  `json:"distance"`
	Similar   bool `json:"similar"`
	Threshold int  `json:"threshold"`
}

// ConfigResponse describes the active hashing configuration.
type ConfigResponse struct {
	phash.Config
	Tag         string `json:"tag"`
	Bits        int    `json:"bits"`
	MaxDistance int    `json:"max_distance"`
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, phash.ErrConfigurationMismatch):
		return http.StatusConflict
	case errors.Is(err, phash.ErrInvalidImage),
		errors.Is(err, phash.ErrMalformedHash),
		errors.Is(err, phash.ErrConfiguration):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	h.Log.Debug("rejected request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

// readUpload returns the bytes of the multipart file in field after the
// size and extension checks.
func (h *Handler) readUpload(c *gin.Context, field string) ([]byte, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file not found in field " + field})
		return nil, false
	}
	defer file.Close()

	if header.Size > h.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds the upload limit"})
		return nil, false
	}
	if !imageprocessing.IsImageFile(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format, please upload a valid image"})
		return nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		h.Log.Error("could not read upload", zap.String("field", field), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file"})
		return nil, false
	}
	return data, true
}

// threshold reads an optional max distance form field.
func (h *Handler) threshold(c *gin.Context) (int, bool) {
	raw := c.DefaultPostForm("threshold", "")
	if raw == "" {
		return h.MaxDistance, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
		return 0, false
	}
	return v, true
}

// @Summary Hash image
// @Description Compute the perceptual hash of an uploaded image
// @Tags Hashing
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file to hash"
// @Success 200 {object} HashResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /hash [post]
func (h *Handler) HashHandler(c *gin.Context) {
	startTime := time.Now()
	data, ok := h.readUpload(c, "image")
	if !ok {
		return
	}

	hash, cached, err := h.DB.HashBytes(data)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, HashResponse{
		Hash:             hash.Hex(),
		Tagged:           hash.String(),
		Config:           hash.Config().Tag(),
		Bits:             hash.Bits(),
		Cached:           cached,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// @Summary Compare two images
// @Description Hash two uploaded images and report their Hamming distance
// @Tags Comparison
// @Accept multipart/form-data
// @Produce json
// @Param image1 formData file true "First image"
// @Param image2 formData file true "Second image"
// @Param threshold formData integer false "Maximum distance still considered similar"
// @Success 200 {object} CompareResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /compare [post]
func (h *Handler) CompareHandler(c *gin.Context) {
	startTime := time.Now()
	threshold, ok := h.threshold(c)
	if !ok {
		return
	}
	data1, ok := h.readUpload(c, "image1")
	if !ok {
		return
	}
	data2, ok := h.readUpload(c, "image2")
	if !ok {
		return
	}

	hash1, _, err := h.DB.HashBytes(data1)
	if err != nil {
		h.fail(c, errors.Wrap(err, "image1"))
		return
	}
	hash2, _, err := h.DB.HashBytes(data2)
	if err != nil {
		h.fail(c, errors.Wrap(err, "image2"))
		return
	}

	distance, err := phash.Distance(hash1, hash2)
	if err != nil {
		h.fail(c, err)
		return
	}
	similarity, err := phash.Similarity(hash1, hash2)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, CompareResponse{
		Hash1:            hash1.Hex(),
		Hash2:            hash2.Hex(),
		Distance:         distance,
		Similarity:       similarity,
		Similar:          distance <= threshold,
		Threshold:        threshold,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// @Summary Hash distance
// @Description Hamming distance between two hashes in hex or tagged form
// @Tags Comparison
// @Accept json
// @Produce json
// @Param request body DistanceRequest true "Hashes to compare"
// @Success 200 {object} DistanceResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /distance [post]
func (h *Handler) DistanceHandler(c *gin.Context) {
	var req DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hash_a and hash_b are required"})
		return
	}
	threshold := h.MaxDistance
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
		return
	}

	distance, err := h.Comparator.Distance(req.HashA, req.HashB)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DistanceResponse{Distance: distance, Similar: distance <= threshold, Threshold: threshold})
}

// @Summary Hashing configuration
// @Description Configuration every hash from this service is produced with
// @Tags Admin
// @Produce json
// @Success 200 {object} ConfigResponse
// @Router /admin/config [get]
func (h *Handler) ConfigHandler(c *gin.Context) {
	cfg := h.DB.Hasher().Config()
	c.JSON(http.StatusOK, ConfigResponse{
		Config:      cfg,
		Tag:         cfg.Tag(),
		Bits:        cfg.Bits(),
		MaxDistance: h.MaxDistance,
	})
}

// @Summary Hello endpoint
// @Description Test connection endpoint
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/hello [get]
func (h *Handler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello, world"})
}
