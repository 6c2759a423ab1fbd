package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// WalletHandler serves the wallet session lifecycle endpoints.
type WalletHandler struct {
	wallet    port.WalletProvider
	chainData port.ChainDataService
}

func NewWalletHandler(wallet port.WalletProvider, chainData port.ChainDataService) *WalletHandler {
	return &WalletHandler{wallet: wallet, chainData: chainData}
}

type connectRequest struct {
	Method   string                  `json:"method" binding:"required"`
	Injected *entity.InjectedWallets `json:"injected,omitempty"`
}

func (h *WalletHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	session, err := h.wallet.Connect(c.Request.Context(), port.ConnectOptions{
		Method:   entity.SigningMethod(req.Method),
		Injected: req.Injected,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *WalletHandler) Disconnect(c *gin.Context) {
	// Cached personal data is purged before the session is dropped so a
	// subsequent connection never observes the previous user's entries.
	if session, ok := h.wallet.Session(); ok {
		h.chainData.PurgeAddress(session.PublicKey)
	}
	if err := h.wallet.Disconnect(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(entity.StatusDisconnected)})
}

func (h *WalletHandler) Session(c *gin.Context) {
	session, ok := h.wallet.Session()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": h.wallet.Status(), "session": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": h.wallet.Status(), "session": session})
}

type signRequest struct {
	EnvelopeXDR string `json:"envelopeXdr" binding:"required"`
}

func (h *WalletHandler) Sign(c *gin.Context) {
	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	signed, err := h.wallet.Sign(c.Request.Context(), req.EnvelopeXDR)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedEnvelopeXdr": signed})
}

type importRequest struct {
	Secret string `json:"secret" binding:"required"`
}

func (h *WalletHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.wallet.ImportWallet(req.Secret); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "imported"})
}

func (h *WalletHandler) Export(c *gin.Context) {
	secret, err := h.wallet.ExportWallet()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": secret})
}

func (h *WalletHandler) Conflicts(c *gin.Context) {
	var injected entity.InjectedWallets
	if err := c.ShouldBindJSON(&injected); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.wallet.DetectConflicts(injected))
}
