package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// SettingsHandler serves the runtime network configuration endpoints.
type SettingsHandler struct {
	settings port.SettingsService
}

func NewSettingsHandler(settings port.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Current())
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var patch entity.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	updated, err := h.settings.Update(patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SettingsHandler) Reset(c *gin.Context) {
	restored, err := h.settings.Reset()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, restored)
}
