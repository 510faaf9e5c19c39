package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-atm/atm"
	"go-atm/config"
	"go-atm/models"
	"go-atm/store"
)

type LoginRequest struct {
	CustomerNumber string `json:"customerNumber"`
	PIN            string `json:"pin"`
}

type TransactionRequest struct {
	Account string `json:"account"`
	// Amount arrives as a JSON number or a numeric string; clients send
	// both, so it is coerced in parseAmount.
	Amount any `json:"amount"`
}

type BalanceResponse struct {
	BasicChecking int64 `json:"basicChecking"`
	Savings       int64 `json:"savings"`
	TotalBalance  int64 `json:"totalBalance"`
}

type TransactionReceipt struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Timestamp string `json:"timestamp"`
}

type TransactionResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	NewBalance  int64              `json:"newBalance"`
	Transaction TransactionReceipt `json:"transaction"`
	Date        string             `json:"date"`
}

type app struct {
	store  store.Store
	engine *atm.Engine
	log    *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	st, err := newStore(cfg)
	if err != nil {
		logger.Fatal("invalid store configuration", zap.Error(err))
	}

	// Refuse to serve if the ledger cannot be read or seeded.
	customers, err := st.LoadAll(context.Background())
	if err != nil {
		logger.Fatal("failed to initialize customer data", zap.Error(err))
	}
	logger.Info("customer data loaded",
		zap.Int("customers", len(customers)),
		zap.String("backend", cfg.StoreBackend),
	)

	a := &app{store: st, engine: atm.NewEngine(st, logger), log: logger}
	r := a.router()

	logger.Info("starting go-atm server", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newStore(cfg config.AppConfig) (store.Store, error) {
	switch cfg.StoreBackend {
	case "csv":
		return store.NewCSVStore(cfg.CSVPath), nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisPass), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (a *app) router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	api := r.Group("/api")
	api.POST("/auth/login", a.login)
	api.GET("/accounts/:id", a.getAccount)
	api.GET("/accounts/:id/balance", a.getBalance)
	api.POST("/transactions/withdraw/:customerId", a.withdraw)
	api.POST("/transactions/deposit/:customerId", a.deposit)
	return r
}

func (a *app) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CustomerNumber == "" || req.PIN == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer number and PIN are required"})
		return
	}

	customer, err := a.store.FindByID(c.Request.Context(), req.CustomerNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		a.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Plaintext comparison against the ledger's unhashed PIN. Known
	// weakness, kept for compatibility with the stored format.
	if customer.PIN != req.PIN {
		a.log.Warn("invalid PIN", zap.String("customerNumber", req.CustomerNumber))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
		"message":  "Login successful",
	})
}

func (a *app) getAccount(c *gin.Context) {
	customer, err := a.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		a.log.Error("get account failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get account details"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (a *app) getBalance(c *gin.Context) {
	customer, err := a.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		a.log.Error("get balance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get account balance"})
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{
		BasicChecking: customer.BasicChecking,
		Savings:       customer.Savings,
		TotalBalance:  customer.BasicChecking + customer.Savings,
	})
}

func (a *app) withdraw(c *gin.Context) { a.transact(c, atm.Withdraw) }
func (a *app) deposit(c *gin.Context)  { a.transact(c, atm.Deposit) }

func (a *app) transact(c *gin.Context, dir atm.Direction) {
	customerID := c.Param("customerId")

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	magnitude, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidAmountMessage(dir)})
		return
	}

	newBalance, err := a.engine.Apply(c.Request.Context(), customerID, req.Account, magnitude, dir)
	if err != nil {
		a.transactError(c, dir, err)
		return
	}

	acct, _ := models.ParseAccountType(req.Account)
	now := time.Now().UTC().Format(time.RFC3339)
	c.JSON(http.StatusOK, TransactionResponse{
		Success:    true,
		Message:    successMessage(dir),
		NewBalance: newBalance,
		Transaction: TransactionReceipt{
			ID:        uuid.New().String(),
			Type:      dir.String(),
			Account:   acct.DisplayName(),
			Amount:    magnitude,
			Currency:  atm.Currency,
			Timestamp: now,
		},
		Date: now,
	})
}

func (a *app) transactError(c *gin.Context, dir atm.Direction, err error) {
	switch {
	case errors.Is(err, atm.ErrInvalidAccountType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account type"})
	case errors.Is(err, atm.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidAmountMessage(dir)})
	case errors.Is(err, atm.ErrInvalidMultiple):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Withdrawal amount must be in multiples of %s%d", atm.CurrencySymbol, atm.WithdrawalMultiple),
		})
	case errors.Is(err, atm.ErrLimitExceeded):
		if dir == atm.Withdraw {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Maximum withdrawal limit is %s50,000", atm.CurrencySymbol),
			})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Maximum deposit limit is %s100,000", atm.CurrencySymbol),
			})
		}
	case errors.Is(err, atm.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
	case atm.IsNotFound(err):
		if dir == atm.Withdraw {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		}
	default:
		a.log.Error("transaction failed", zap.String("type", dir.String()), zap.Error(err))
		if dir == atm.Withdraw {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process withdrawal"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process deposit. Please try again."})
		}
	}
}

func successMessage(dir atm.Direction) string {
	if dir == atm.Withdraw {
		return "Withdrawal successful"
	}
	return "Deposit successful"
}

func invalidAmountMessage(dir atm.Direction) string {
	if dir == atm.Withdraw {
		return "Invalid amount"
	}
	return "Please enter a valid amount"
}

// parseAmount coerces the wire amount to a whole number of rupees.
// Balances are integers, so fractional amounts are rejected here rather
// than silently rounded.
func parseAmount(v any) (int64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q is not a number", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("amount must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("amount %v is not a whole number", f)
	}
	return int64(f), nil
}
