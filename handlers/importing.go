package handlers

import (
	"errors"
	"net/http"

	"studiobook/services/importer"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportHandler exposes the two-phase spreadsheet import. Prepare stages a
// plan and returns the candidate count; nothing is written until the
// operator confirms by committing the token.
type ImportHandler struct {
	Service importer.Service
	Logger  *zap.Logger
}

func NewImportHandler(svc importer.Service, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{Service: svc, Logger: logger}
}

// PrepareImportHandler handles POST /api/import/prepare (multipart: "sheet"
// file + "date" field).
func (h *ImportHandler) PrepareImportHandler(c *gin.Context) {
	targetDate := c.PostForm("date")
	if targetDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date form field is required")
		return
	}
	fileHeader, err := c.FormFile("sheet")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "sheet file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	defer file.Close()

	plan, err := h.Service.PrepareImport(c.Request.Context(), file, targetDate)
	if err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "failed to prepare import", err.Error())
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CommitImportHandler handles POST /api/import/commit.
func (h *ImportHandler) CommitImportHandler(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CommitImport(c.Request.Context(), input.Token)
	if err != nil {
		if errors.Is(err, importer.ErrPlanNotFound) {
			utils.JSONError(c, http.StatusGone, "plan expired", "prepare the import again")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to commit import", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
