package handlers

import (
	"log"
	"net/http"

	"github.com/fmtlab/fmtlab/internal/encryption"
	"github.com/fmtlab/fmtlab/internal/metrics"
	"github.com/fmtlab/fmtlab/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgEncryptFailure = "An error occurred during encryption."
	msgDecryptFailure = "An error occurred during decryption."
)

type EncryptionHandler struct {
	service *encryption.Service
	metrics metrics.Recorder
}

// NewEncryptionHandler creates a new encryption proxy handler
func NewEncryptionHandler(s *encryption.Service, m metrics.Recorder) *EncryptionHandler {
	return &EncryptionHandler{service: s, metrics: m}
}

type encryptionRequest struct {
	Target    string `json:"target"`
	PlainText string `json:"plainText"`
}

// Encrypt handles POST /api/encryption/encrypt. The target selects the key
// domain ("1" web, "2" backend, "3" analytics). Failure details are logged,
// never returned to the client.
func (h *EncryptionHandler) Encrypt(c *gin.Context) {
	var req encryptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.Failure(msgEncryptFailure))
		return
	}

	target, err := encryption.ParseTarget(req.Target)
	if err != nil {
		log.Printf("[Encryption] Encrypt rejected: %v", err)
		h.metrics.RecordEncryptionOp("encrypt", "unknown", false)
		c.JSON(http.StatusOK, models.Failure(msgEncryptFailure))
		return
	}

	encrypted, err := h.service.Encrypt(target, req.PlainText)
	if err != nil {
		log.Printf("[Encryption] Encrypt failed for target=%s: %v", target, err)
		h.metrics.RecordEncryptionOp("encrypt", target.String(), false)
		c.JSON(http.StatusOK, models.Failure(msgEncryptFailure))
		return
	}

	h.metrics.RecordEncryptionOp("encrypt", target.String(), true)
	c.JSON(http.StatusOK, models.Success(map[string]string{
		"encryptedText": encrypted,
	}))
}

// Decrypt handles POST /api/encryption/decrypt with the same target scheme.
func (h *EncryptionHandler) Decrypt(c *gin.Context) {
	var req encryptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.Failure(msgDecryptFailure))
		return
	}

	target, err := encryption.ParseTarget(req.Target)
	if err != nil {
		log.Printf("[Encryption] Decrypt rejected: %v", err)
		h.metrics.RecordEncryptionOp("decrypt", "unknown", false)
		c.JSON(http.StatusOK, models.Failure(msgDecryptFailure))
		return
	}

	decrypted, err := h.service.Decrypt(target, req.PlainText)
	if err != nil {
		log.Printf("[Encryption] Decrypt failed for target=%s: %v", target, err)
		h.metrics.RecordEncryptionOp("decrypt", target.String(), false)
		c.JSON(http.StatusOK, models.Failure(msgDecryptFailure))
		return
	}

	h.metrics.RecordEncryptionOp("decrypt", target.String(), true)
	c.JSON(http.StatusOK, models.Success(map[string]string{
		"decryptedText": decrypted,
	}))
}
