package main

import (
	"os"

	"github.com/SscSPs/dues_ledger/internal/cli"
)

// @title Dues Ledger API
// @version 1.0
// @description Debt and payment reconciliation for club members. Payments settle the oldest outstanding debts first.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
