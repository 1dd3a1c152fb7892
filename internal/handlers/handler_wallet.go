package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// walletHandler handles HTTP requests for wallets and the ledger.
type walletHandler struct {
	walletSvc portssvc.WalletSvcFacade
}

func newWalletHandler(walletSvc portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{walletSvc: walletSvc}
}

// createWallet godoc
// @Summary Create a wallet
// @Description Provisions a wallet for a student. Students may create their own; staff may create for anyone.
// @Tags wallets
// @Accept json
// @Produce json
// @Param wallet body dto.CreateWalletRequest true "Wallet details"
// @Success 201 {object} dto.WalletResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Wallet already exists"
// @Router /wallets [post]
func (h *walletHandler) createWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create wallet")
		return
	}

	c.JSON(http.StatusCreated, dto.ToWalletResponse(*wallet, 0))
}

// getWallet godoc
// @Summary Get a wallet
// @Description Retrieves a wallet with its current balance.
// @Tags wallets
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /wallets/{walletID} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	walletID := c.Param("walletID")

	wallet, err := h.walletSvc.GetWalletByID(c.Request.Context(), walletID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve wallet")
		return
	}
	balance, err := h.walletSvc.GetBalance(c.Request.Context(), walletID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(*wallet, balance))
}

// getStudentWallet godoc
// @Summary Get a student's wallet
// @Tags wallets
// @Produce json
// @Param studentID path string true "Student ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /students/{studentID}/wallet [get]
func (h *walletHandler) getStudentWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	studentID := c.Param("studentID")

	wallet, err := h.walletSvc.GetWalletByStudentID(c.Request.Context(), studentID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve wallet")
		return
	}
	balance, err := h.walletSvc.GetBalance(c.Request.Context(), wallet.WalletID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(*wallet, balance))
}

// checkSufficiency godoc
// @Summary Check whether a wallet covers an amount
// @Description Advisory read; the ledger re-checks under the wallet lock on every debit.
// @Tags wallets
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param amount query int true "Amount in minor units"
// @Success 200 {object} dto.SufficiencyResponse
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /wallets/{walletID}/sufficiency [get]
func (h *walletHandler) checkSufficiency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	walletID := c.Param("walletID")

	var params dto.SufficiencyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	sufficient, err := h.walletSvc.HasSufficientFunds(c.Request.Context(), walletID, params.Amount, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check funds")
		return
	}

	c.JSON(http.StatusOK, dto.SufficiencyResponse{
		WalletID:   walletID,
		Amount:     params.Amount,
		Sufficient: sufficient,
	})
}

// listTransactions godoc
// @Summary List wallet transactions
// @Description Returns a page of ledger entries, newest first.
// @Tags wallets
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /wallets/{walletID}/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	walletID := c.Param("walletID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.walletSvc.ListTransactions(c.Request.Context(), walletID, actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deposit godoc
// @Summary Deposit into a wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.TransactionResult
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /wallets/{walletID}/deposit [post]
func (h *walletHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.walletSvc.Deposit(c.Request.Context(), c.Param("walletID"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to deposit")
		return
	}

	c.JSON(http.StatusOK, result)
}

// withdraw godoc
// @Summary Withdraw from a wallet
// @Description Fails with 402 when the balance does not cover the amount.
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} dto.TransactionResult
// @Failure 402 {object} map[string]string "Insufficient funds"
// @Router /wallets/{walletID}/withdraw [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.walletSvc.Withdraw(c.Request.Context(), c.Param("walletID"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, result)
}

// manualDeposit godoc
// @Summary Admin credit with a mandatory reason
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param deposit body dto.ManualDepositRequest true "Adjustment details"
// @Success 200 {object} dto.TransactionResult
// @Failure 403 {object} map[string]string "Admin only"
// @Router /wallets/{walletID}/manual-deposit [post]
func (h *walletHandler) manualDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ManualDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for manualDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.walletSvc.ManualDeposit(c.Request.Context(), c.Param("walletID"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply manual deposit")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerWalletRoutes sets up the wallet and ledger routes.
func registerWalletRoutes(rg *gin.RouterGroup, walletSvc portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletSvc)

	wallets := rg.Group("/wallets")
	wallets.POST("", h.createWallet)
	wallets.GET("/:walletID", h.getWallet)
	wallets.GET("/:walletID/sufficiency", h.checkSufficiency)
	wallets.GET("/:walletID/transactions", h.listTransactions)
	wallets.POST("/:walletID/deposit", h.deposit)
	wallets.POST("/:walletID/withdraw", h.withdraw)
	wallets.POST("/:walletID/manual-deposit", h.manualDeposit)

	rg.GET("/students/:studentID/wallet", h.getStudentWallet)
}
