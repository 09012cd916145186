package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health       *Handler
	Identity     *IdentityHandler
	Clients      *ClientHandler
	LoanRequests *LoanRequestHandler
	Transactions *TransactionHandler
	CashRegister *CashRegisterHandler
	ClientFiles  *ClientFilesHandler
	Reports      *ReportHandler
}

// Register mounts every route. actor guards everything but /health; idem is
// applied to the money-moving POSTs only.
func Register(e *echo.Echo, h Handlers, actor, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	g := e.Group("", actor)

	g.POST("/branches", h.Identity.CreateBranch)
	g.GET("/branches", h.Identity.ListBranches)
	g.GET("/branches/:id", h.Identity.GetBranch)
	g.GET("/branches/:id/agents", h.Identity.ListAgents)
	g.PUT("/branches/:id/administrator", h.Identity.SetAdministrator)
	g.POST("/users", h.Identity.CreateUser)
	g.GET("/users/:id", h.Identity.GetUser)

	g.POST("/clients", h.Clients.Create)
	g.GET("/clients", h.Clients.List)
	g.GET("/clients/:id", h.Clients.Get)
	g.PATCH("/clients/:id", h.Clients.Update)
	g.PATCH("/clients/:id/status", h.Clients.ChangeStatus)

	g.POST("/loan-request", h.LoanRequests.Create, idem)
	g.GET("/loan-request/simulate", h.LoanRequests.Simulate)
	g.GET("/loan-request/:id", h.LoanRequests.Get)
	g.PATCH("/loan-request/:id", h.LoanRequests.Update)
	g.POST("/loan-request/:id/renew", h.LoanRequests.Renew, idem)
	g.GET("/loan-request/client/:id", h.LoanRequests.OpenByClient)
	g.GET("/loan-request/client/:id/all", h.LoanRequests.ListByClient)
	g.GET("/loan-request/:id/balance", h.Transactions.Balance)

	g.POST("/transactions", h.Transactions.Record, idem)
	g.GET("/transactions/loan-request/:id", h.Transactions.ListByLoanRequest)

	g.POST("/cash-flow", h.CashRegister.RecordMovement, idem)
	g.GET("/cash-flow", h.CashRegister.ListMovements)
	g.GET("/cash-register/trace", h.CashRegister.Trace)
	g.POST("/cash-register/close", h.CashRegister.Close, idem)

	g.POST("/clients/:id/documents", h.ClientFiles.RegisterDocument)
	g.GET("/clients/:id/documents", h.ClientFiles.ListDocuments)
	g.PATCH("/documents/:id", h.ClientFiles.UpdateDocumentCategory)
	g.POST("/clients/:id/messages", h.ClientFiles.AppendMessage)
	g.GET("/clients/:id/messages", h.ClientFiles.ListMessages)

	g.GET("/reports/:kind", h.Reports.Generate)
}
