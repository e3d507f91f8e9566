package handlers

import (
	"sync"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by request DTOs.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("frequency", validFrequency)
	})
}

// validFrequency accepts any token ParseFrequency understands, on string and *string fields.
func validFrequency(fl validator.FieldLevel) bool {
	_, err := domain.ParseFrequency(fl.Field().String())
	return err == nil
}
