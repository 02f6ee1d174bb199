package api

import (
	"net/http"

	basemodels "github.com/KoboPoint/KoboPoint-Backend/models"
	"github.com/KoboPoint/KoboPoint-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Wallets struct {
	server *Server
}

func (w Wallets) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.GET("", AuthenticatedMiddleware(), w.getWallet)
}

func (w *Wallets) getWallet(ctx *gin.Context) {
	user, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(err.Error()))
		return
	}

	walletModel, err := w.server.walletService.GetOrCreateWallet(ctx, user.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError("could not fetch wallet"))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched wallet", walletModel))
}
