package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/models"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	predictor *service.Predictor
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(predictor *service.Predictor, logger *zap.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		logger:    logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)
	r.POST("/predict", h.Predict)

	api := r.Group("/api/v1")
	{
		api.GET("/transactions", h.RecentTransactions)
		api.GET("/transactions/stats", h.GetStats)
		api.GET("/export/csv", h.ExportCSV)
	}
}

// Root returns the plain-text liveness string.
func (h *Handler) Root(c *gin.Context) {
	if h.predictor.Ready() {
		c.String(http.StatusOK, "Hello, world! The fraud detection API is running and all models are loaded.")
		return
	}
	c.String(http.StatusOK, "The fraud detection API is running, but the model failed to load.")
}

// HealthCheck returns service health and model-load status.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "fraud-detection-api",
		"model_loaded": h.predictor.Ready(),
	})
}

// Predict scores one transaction record. Missing required keys and encoding
// failures are client errors; a model that never loaded is a server error.
func (h *Handler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	if missing := models.MissingKeys(raw); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing input data for: " + strings.Join(missing, ", "),
		})
		return
	}

	var transaction models.Transaction
	if err := json.Unmarshal(body, &transaction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("an error occurred: %s", err)})
		return
	}

	prediction, err := h.predictor.Predict(c.Request.Context(), &transaction)
	if err != nil {
		if errors.Is(err, service.ErrModelUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrModelUnavailable.Error()})
			return
		}
		h.logger.Error("Prediction failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("an error occurred: %s", err)})
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// RecentTransactions returns the newest scored transactions.
func (h *Handler) RecentTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit (must be 1-500)"})
		return
	}

	transactions, err := h.predictor.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to get transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        len(transactions),
	})
}

// GetStats returns transaction log statistics
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.predictor.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCSV exports the transaction log to CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	transactions, err := h.predictor.Recent(500)
	if err != nil {
		h.logger.Error("Failed to export CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=transactions.csv")

	writer := csv.NewWriter(c.Writer)

	writer.Write([]string{"id", "transaction_time", "amount", "age", "bank", "merchant_group", "is_fraudulent", "fraud_probability"})

	for _, tx := range transactions {
		writer.Write([]string{
			strconv.FormatInt(tx.ID, 10),
			tx.TransactionTime.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			strconv.FormatFloat(tx.Age, 'f', 1, 64),
			tx.Bank,
			tx.MerchantGroup,
			strconv.FormatBool(tx.IsFraudulent),
			strconv.FormatFloat(tx.FraudProbability, 'f', 4, 64),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("Failed to write CSV export", zap.Error(err))
	}
}
