package restapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/panoramablock/rwasync/internal/app/port"
)

// ChainDataHandler serves the cached chain-state read endpoints. Every
// endpoint honors ?force=true to bypass the cache.
type ChainDataHandler struct {
	chainData port.ChainDataService
}

func NewChainDataHandler(chainData port.ChainDataService) *ChainDataHandler {
	return &ChainDataHandler{chainData: chainData}
}

func forceParam(c *gin.Context) bool {
	return c.Query("force") == "true"
}

func (h *ChainDataHandler) Assets(c *gin.Context) {
	assets, err := h.chainData.WalletAssets(c.Request.Context(), c.Param("address"), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *ChainDataHandler) BalanceSummary(c *gin.Context) {
	summary, err := h.chainData.BalanceSummary(c.Request.Context(), c.Param("address"), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ChainDataHandler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	txs, err := h.chainData.Transactions(c.Request.Context(), c.Param("address"), limit, forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *ChainDataHandler) Pools(c *gin.Context) {
	pools, err := h.chainData.Pools(c.Request.Context(), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func (h *ChainDataHandler) PoolStats(c *gin.Context) {
	stats, err := h.chainData.PoolStats(c.Request.Context(), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ChainDataHandler) PoolInfo(c *gin.Context) {
	info, err := h.chainData.PoolInfo(c.Request.Context(), c.Param("address"), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *ChainDataHandler) ContractInfo(c *gin.Context) {
	info, err := h.chainData.ContractInfo(c.Request.Context(), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *ChainDataHandler) UserPosition(c *gin.Context) {
	position, err := h.chainData.UserPosition(c.Request.Context(), c.Param("address"), c.Param("account"), forceParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, position)
}

func (h *ChainDataHandler) RecentTokens(c *gin.Context) {
	tokens, err := h.chainData.RecentTokens()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *ChainDataHandler) ClearRecentTokens(c *gin.Context) {
	if err := h.chainData.ClearRecentTokens(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
