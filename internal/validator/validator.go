// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"networth/internal/models"
)

// Exchange symbols such as "AAPL", "BRK.B", "VWRL.L" or "BTC/USD".
var tickerRegex = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9][A-Za-z0-9./:-]{0,%d}$`, models.MaxTickerLength-1))

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("contribution_type", validateContributionType)
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Checking", "Savings", "Investment", "Credit":
		return true
	}
	return false
}

func validateContributionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal":
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}
