package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newtown/billsplitter/internal/metrics"
)

// maxImageBytes caps receipt uploads at 10 MB.
const maxImageBytes = 10 << 20

// extractionTimeout bounds one background extraction, archive upload included.
const extractionTimeout = 2 * time.Minute

// uploadReceipt accepts a receipt image, clears the current item list (members
// stay), and dispatches one background extraction task. The response carries
// a job id to poll.
func (s *Server) uploadReceipt(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty image"})
		return
	}
	if len(image) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	// A new receipt replaces the current bill's items; members persist.
	s.ledger.ClearItems()

	job := s.jobs.create()
	go s.processReceipt(job.ID, image, mimeType)

	slog.Info("Receipt extraction dispatched", "job_id", job.ID, "bytes", len(image), "mime_type", mimeType)
	c.JSON(http.StatusAccepted, job)
}

// processReceipt runs one extraction task: archive the image (best effort),
// call the extractor, and apply the result to the ledger. Extraction failures
// land on the bill as a zero-price error item and mark the job failed.
func (s *Server) processReceipt(jobID string, image []byte, mimeType string) {
	ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
	defer cancel()

	if s.images != nil {
		key := fmt.Sprintf("receipts/%s", uuid.New().String())
		url, err := s.images.Upload(ctx, key, image, mimeType)
		if err != nil {
			slog.Warn("Receipt archive upload failed", "job_id", jobID, "error", err)
		} else {
			s.jobs.setImageURL(jobID, url)
		}
	}

	items, err := s.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		metrics.ExtractionRequests.WithLabelValues("error").Inc()
		slog.Error("Receipt extraction failed", "job_id", jobID, "error", err)
		s.ledger.IngestExtractionFailure(err)
		s.jobs.fail(jobID, err)
		return
	}

	if len(items) == 0 {
		metrics.ExtractionRequests.WithLabelValues("empty").Inc()
	} else {
		metrics.ExtractionRequests.WithLabelValues("ok").Inc()
		metrics.ExtractedItems.Add(float64(len(items)))
	}

	added := s.ledger.IngestExtractedItems(items)
	s.jobs.complete(jobID, added)
	slog.Info("Receipt extraction completed", "job_id", jobID, "items", added)
}

func (s *Server) getReceiptJob(c *gin.Context) {
	job, ok := s.jobs.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
