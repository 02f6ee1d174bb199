package api

import (
	"errors"
	"net/http"
	"time"

	basemodels "github.com/KoboPoint/KoboPoint-Backend/models"

	"github.com/KoboPoint/KoboPoint-Backend/api/models"
	"github.com/KoboPoint/KoboPoint-Backend/providers"
	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/fulfillment"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	"github.com/KoboPoint/KoboPoint-Backend/services/wallet"
	"github.com/KoboPoint/KoboPoint-Backend/utils"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

const floatBalanceKey = "provider_float_balance"

type Bills struct {
	server *Server
	// floatCache keeps the provider balance off the hot path; one call a
	// minute is plenty for float monitoring.
	floatCache *gocache.Cache
}

func (b Bills) router(server *Server) {
	b.server = server
	b.floatCache = gocache.New(time.Minute, 5*time.Minute)

	serverGroupV1 := server.router.Group("/api/v1/bills")
	serverGroupV1.POST("purchase", AuthenticatedMiddleware(), b.purchase)
	serverGroupV1.GET("data-plans", AuthenticatedMiddleware(), b.getDataPlans)
	serverGroupV1.GET("transactions", AuthenticatedMiddleware(), b.getTransactions)

	adminGroupV1 := server.router.Group("/api/v1/bills")
	adminGroupV1.Use(AuthenticatedMiddleware(), AdminMiddleware())
	adminGroupV1.GET("status", b.getOrderStatus)
	adminGroupV1.GET("provider-balance", b.getProviderBalance)
	adminGroupV1.POST("sync-plans", b.syncPlans)
}

// purchase runs the fulfillment saga. The response is always HTTP 200 with
// the success flag carried in-band, which keeps mobile client handling to a
// single code path.
func (b *Bills) purchase(ctx *gin.Context) {
	user, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(err.Error()))
		return
	}

	var request models.PurchaseBillRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusOK, models.PurchaseBillResponse{
			Success:   false,
			Error:     "invalid request: " + err.Error(),
			RequestID: request.RequestID,
		})
		return
	}

	outcome, err := b.server.fulfillmentService.Purchase(ctx, user.UserID, fulfillment.PurchaseRequest{
		Type:      pricing.BillKind(request.Type),
		Network:   request.Network,
		Phone:     request.Phone,
		Amount:    request.Amount,
		PlanID:    request.PlanID,
		RequestID: request.RequestID,
	})

	if err != nil {
		ctx.JSON(http.StatusOK, purchaseFailure(request, outcome, err))
		return
	}

	ctx.JSON(http.StatusOK, models.PurchaseBillResponse{
		Success:   true,
		Data:      outcome,
		RequestID: outcome.RequestID,
	})
}

// purchaseFailure maps saga errors onto the in-band error contract.
func purchaseFailure(request models.PurchaseBillRequest, outcome *fulfillment.PurchaseOutcome, err error) models.PurchaseBillResponse {
	requestID := request.RequestID
	if outcome != nil {
		requestID = outcome.RequestID
	}

	response := models.PurchaseBillResponse{
		Success:   false,
		Data:      outcome,
		RequestID: requestID,
	}

	switch {
	case errors.Is(err, pricing.ErrInvalidPlan),
		errors.Is(err, pricing.ErrBelowMinimum),
		errors.Is(err, pricing.ErrUnknownKind),
		errors.Is(err, bills.ErrUnknownNetwork):
		response.Error = "invalid request: " + err.Error()
	case errors.Is(err, wallet.ErrInsufficientFunds):
		response.Error = "insufficient wallet balance"
	case errors.Is(err, wallet.ErrWalletNotFound):
		response.Error = "no wallet found for this account"
	case errors.Is(err, fulfillment.ErrRefundFailed):
		response.Error = "purchase failed and the refund could not be confirmed, support has been notified"
	default:
		// Provider failure or transport error; the saga has already
		// refunded, and the outcome says so.
		response.Error = "purchase failed, your wallet has been refunded"
	}

	return response
}

func (b *Bills) getDataPlans(ctx *gin.Context) {
	network := ctx.Query("network")
	if network == "" {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError("network query parameter is required"))
		return
	}

	// Serve from the cache when warm
	if b.server.redis != nil {
		plans, err := b.server.redis.GetPlans(ctx, network)
		if err == nil && len(plans) > 0 {
			ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched data plans", plans))
			return
		}
	}

	dbPlans, err := b.server.store.ListActiveDataPlansByNetwork(ctx, network)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError("could not fetch data plans"))
		return
	}

	plans := models.ToDataPlanModels(dbPlans)

	if b.server.redis != nil && len(plans) > 0 {
		if err := b.server.redis.StorePlans(ctx, network, plans); err != nil {
			b.server.logger.Error("failed to cache data plans", err)
		}
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched data plans", plans))
}

func (b *Bills) getTransactions(ctx *gin.Context) {
	user, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(err.Error()))
		return
	}

	transactions, err := b.server.transactionService.ListForCustomer(ctx, user.UserID, 50)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError("could not fetch transactions"))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched bill transactions", transactions))
}

// getOrderStatus is the operator reconciliation tool: before trusting a
// refund, check what the provider actually did with the order.
func (b *Bills) getOrderStatus(ctx *gin.Context) {
	orderID := ctx.Query("order_id")
	if orderID == "" {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError("order_id query parameter is required"))
		return
	}

	billProv, ok := b.billProvider()
	if !ok {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError("can not find provider Bill Provider"))
		return
	}

	status, err := billProv.QueryTransaction(orderID)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched order status", status))
}

func (b *Bills) getProviderBalance(ctx *gin.Context) {
	if cached, found := b.floatCache.Get(floatBalanceKey); found {
		ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched provider balance", cached))
		return
	}

	billProv, ok := b.billProvider()
	if !ok {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError("can not find provider Bill Provider"))
		return
	}

	balance, err := billProv.GetWalletBalance()
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	b.floatCache.Set(floatBalanceKey, balance, gocache.DefaultExpiration)
	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched provider balance", balance))
}

func (b *Bills) syncPlans(ctx *gin.Context) {
	user, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(err.Error()))
		return
	}

	// The token says admin; confirm against the database before touching
	// shared pricing records.
	role, err := b.server.store.GetUserRole(ctx, user.UserID)
	if err != nil || role != "admin" {
		ctx.JSON(http.StatusForbidden, basemodels.NewError("administrative privilege required"))
		return
	}

	summary, err := b.server.syncService.Sync(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("plan catalog synced", summary))
}

func (b *Bills) billProvider() (*bills.ClubKonnectProvider, bool) {
	provider, exists := b.server.provider.GetProvider(providers.ClubKonnect)
	if !exists {
		return nil, false
	}

	billProv, ok := provider.(*bills.ClubKonnectProvider)
	return billProv, ok
}
