package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler stores proposal documents ahead of submission. The
// returned digest is the project hash commitment a proposer passes to
// the submit operation; evaluators read the document through the
// presigned URL.
type DocumentHandler struct {
	minioService *service.MinioService
}

func NewDocumentHandler(minioSvc *service.MinioService) *DocumentHandler {
	return &DocumentHandler{minioService: minioSvc}
}

// Upload handles proposal document upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	account := middleware.GetAccount(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// PDF and DOCX proposals allowed
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and DOCX files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if ext == ".pdf" {
			contentType = "application/pdf"
		} else {
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		}
	}

	objectName := fmt.Sprintf("%s/%s/%s", account, uuid.New().String(), header.Filename)

	projectHash, err := h.minioService.UploadProposal(c.Request.Context(), objectName, file, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document: " + err.Error()})
		return
	}

	documentURL, err := h.minioService.GetPresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_hash": projectHash,
		"document_url": documentURL,
		"object_name":  objectName,
		"filename":     header.Filename,
	})
}
