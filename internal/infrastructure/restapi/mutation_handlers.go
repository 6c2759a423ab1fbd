package restapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/panoramablock/rwasync/internal/app/port"
)

// MutationHandler serves the state-changing endpoints plus the
// notification feed their outcomes land in.
type MutationHandler struct {
	mutations port.MutationService
	notifier  port.Notifier
}

func NewMutationHandler(mutations port.MutationService, notifier port.Notifier) *MutationHandler {
	return &MutationHandler{mutations: mutations, notifier: notifier}
}

type lendingRequest struct {
	PoolAddress  string `json:"poolAddress" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	// Pointer so a declared precision of 0 is distinguishable from an
	// omitted field; base-unit conversion never assumes a default.
	Decimals *int32 `json:"decimals" binding:"required"`
}

func (r lendingRequest) params() port.LendingParams {
	return port.LendingParams{
		PoolAddress:  r.PoolAddress,
		TokenAddress: r.TokenAddress,
		Amount:       r.Amount,
		Decimals:     *r.Decimals,
	}
}

func (h *MutationHandler) Supply(c *gin.Context) {
	h.lend(c, h.mutations.Supply)
}

func (h *MutationHandler) Borrow(c *gin.Context) {
	h.lend(c, h.mutations.Borrow)
}

func (h *MutationHandler) Repay(c *gin.Context) {
	h.lend(c, h.mutations.Repay)
}

func (h *MutationHandler) Withdraw(c *gin.Context) {
	h.lend(c, h.mutations.Withdraw)
}

func (h *MutationHandler) lend(c *gin.Context, fn func(context.Context, port.LendingParams) (string, error)) {
	var req lendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	hash, err := fn(c.Request.Context(), req.params())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"txHash": hash})
}

type deployRequest struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol"`
	Oracle string `json:"oracle"`
}

func (h *MutationHandler) DeployToken(c *gin.Context) {
	h.deploy(c, h.mutations.DeployToken)
}

func (h *MutationHandler) DeployPool(c *gin.Context) {
	h.deploy(c, h.mutations.DeployPool)
}

func (h *MutationHandler) deploy(c *gin.Context, fn func(context.Context, port.DeployParams) (string, error)) {
	var req deployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	hash, err := fn(c.Request.Context(), port.DeployParams{
		Name:   req.Name,
		Symbol: req.Symbol,
		Oracle: req.Oracle,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"txHash": hash})
}

func (h *MutationHandler) Notifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, gin.H{"notifications": h.notifier.Recent(limit)})
}
